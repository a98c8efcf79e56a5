// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package database

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/salescope/internal/logging"
	"github.com/tomtom215/salescope/internal/models"
)

// seedRand is fixed so demo dashboards look the same on every start.
const seedRand = 20250101

var (
	mockPlatforms = []string{"Blinkit", "Zepto", "Instamart", "BigBasket"}
	mockRegions   = []string{"North", "South", "East", "West"}
	mockMonths    = []string{"2024-10", "2024-11", "2024-12", "2025-01", "2025-02", "2025-03"}
	mockProducts  = []struct {
		code  int64
		name  string
		price string
	}{
		{1001, "Amul Taaza Toned Milk 1L", "54.00"},
		{1002, "Aashirvaad Whole Wheat Atta 5kg", "265.00"},
		{1003, "Tata Salt 1kg", "28.00"},
		{1004, "Fortune Sunflower Oil 1L", "155.00"},
		{1005, "Maggi 2-Minute Noodles 12 Pack", "168.00"},
		{1006, "Britannia Good Day Cashew 200g", "40.00"},
		{1007, "Red Label Tea 500g", "285.00"},
		{1008, "Surf Excel Easy Wash 1kg", "140.00"},
		{1009, "Colgate Strong Teeth 200g", "110.00"},
		{1010, "Haldiram's Aloo Bhujia 400g", "105.00"},
		{1011, "Parle-G Gold 1kg", "150.00"},
		{1012, "Dettol Handwash Refill 750ml", "99.00"},
	}
)

// SeedMockData fills an empty fact table with generated sales so the
// embedded store can be explored without an ingestion pipeline. It is a
// no-op when the table already has rows.
func (db *DB) SeedMockData(ctx context.Context) error {
	var existing int64
	row := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+db.builder.Table())
	if err := row.Scan(&existing); err != nil {
		return fmt.Errorf("count existing rows: %w", err)
	}
	if existing > 0 {
		logging.Info().Int64("rows", existing).Msg("Fact table not empty, skipping mock data")
		return nil
	}

	records := generateMockRecords(rand.New(rand.NewSource(seedRand))) //nolint:gosec // demo data
	if err := db.InsertRecords(ctx, records); err != nil {
		return err
	}

	logging.Info().Int("rows", len(records)).Msg("Seeded fact table with mock data")
	return nil
}

// generateMockRecords emits one to three line items per product for most
// platform, month and region combinations, so detail groups aggregate more
// than one row.
func generateMockRecords(rng *rand.Rand) []models.SalesRecord {
	records := make([]models.SalesRecord, 0, len(mockPlatforms)*len(mockMonths)*len(mockRegions)*len(mockProducts)*2)

	for _, platform := range mockPlatforms {
		for _, month := range mockMonths {
			for _, region := range mockRegions {
				for _, p := range mockProducts {
					if rng.Intn(10) == 0 {
						continue // not every SKU sells everywhere
					}
					price := decimal.RequireFromString(p.price)
					for n := 1 + rng.Intn(3); n > 0; n-- {
						qty := int64(1 + rng.Intn(40))
						records = append(records, models.SalesRecord{
							ItemID:     uuid.NewString(),
							MasterCode: p.code,
							MasterName: p.name,
							Region:     region,
							Platform:   platform,
							SaleMonth:  month,
							GMV:        price.Mul(decimal.NewFromInt(qty)),
							Quantity:   qty,
						})
					}
				}
			}
		}
	}
	return records
}
