// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package database

import (
	"database/sql"
	"fmt"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/salescope/internal/database/query"
	"github.com/tomtom215/salescope/internal/models"
)

// gmvScanner scans a SUM(gmv) column into a decimal.Decimal.
//
// DuckDB returns DECIMAL columns as duckdb.Decimal, pgx returns NUMERIC as
// its text form, and SUM over zero rows is NULL.
type gmvScanner struct {
	dst *decimal.Decimal
}

// Scan implements sql.Scanner.
func (g gmvScanner) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*g.dst = decimal.Zero
		return nil
	case duckdb.Decimal:
		if v.Value == nil {
			*g.dst = decimal.Zero
			return nil
		}
		*g.dst = decimal.NewFromBigInt(v.Value, -int32(v.Scale))
		return nil
	default:
		return g.dst.Scan(src)
	}
}

// scanDetailRow reads the columns produced by BuildDetail and BuildExport.
func scanDetailRow(rows *sql.Rows, r *models.DetailRow) error {
	var region sql.NullString
	var units sql.NullInt64
	if err := rows.Scan(
		&r.Platform,
		&r.SaleMonth,
		&region,
		&r.MasterCode,
		&r.MasterName,
		&units,
		gmvScanner{&r.TotalGMV},
	); err != nil {
		return err
	}
	r.Region = region.String
	r.TotalUnits = units.Int64
	return nil
}

// scanAggregateRow reads one row of an aggregate statement. The grouped
// dimension columns come first, in dims order.
func scanAggregateRow(rows *sql.Rows, dims []query.Dimension, r *models.AggregateRow) error {
	dimVals := make([]sql.NullString, len(dims))
	dest := make([]interface{}, 0, len(dims)+3)
	for i := range dimVals {
		dest = append(dest, &dimVals[i])
	}
	var qty sql.NullInt64
	dest = append(dest, gmvScanner{&r.TotalGMV}, &qty, &r.RecordCount)

	if err := rows.Scan(dest...); err != nil {
		return err
	}

	for i, d := range dims {
		switch d {
		case query.DimPlatform:
			r.Platform = dimVals[i].String
		case query.DimSaleMonth:
			r.SaleMonth = dimVals[i].String
		case query.DimRegion:
			r.Region = dimVals[i].String
		default:
			return fmt.Errorf("unexpected dimension %v", d)
		}
	}
	r.TotalQuantity = qty.Int64
	return nil
}
