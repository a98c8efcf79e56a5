// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package models

import "github.com/shopspring/decimal"

// SalesRecord is one row of the fact table. The service only reads it.
type SalesRecord struct {
	ItemID     string          `json:"item_id"`
	MasterCode int64           `json:"master_code"`
	MasterName string          `json:"master_name"`
	Region     string          `json:"region"`
	Platform   string          `json:"platform"`
	SaleMonth  string          `json:"sale_month"` // YYYY-MM
	GMV        decimal.Decimal `json:"gmv"`
	Quantity   int64           `json:"quantity"`
}

// AggregateRow holds totals for one combination of the grouped dimensions.
// Dimensions that were not grouped are omitted.
type AggregateRow struct {
	Platform      string          `json:"platform,omitempty"`
	SaleMonth     string          `json:"sale_month,omitempty"`
	Region        string          `json:"region,omitempty"`
	TotalGMV      decimal.Decimal `json:"total_gmv"`
	TotalQuantity int64           `json:"total_quantity"`
	RecordCount   int64           `json:"record_count"`
}

// DetailRow holds per-SKU totals within one platform, month and region.
type DetailRow struct {
	Platform   string          `json:"platform"`
	SaleMonth  string          `json:"sale_month"`
	Region     string          `json:"region"`
	MasterCode int64           `json:"master_code"`
	MasterName string          `json:"master_name"`
	TotalUnits int64           `json:"total_units"`
	TotalGMV   decimal.Decimal `json:"total_gmv"`
}

// Pagination describes one page of detail rows.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// DetailPage is a page of detail rows with its pagination block.
type DetailPage struct {
	Rows       []DetailRow
	Pagination Pagination
}
