// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

//go:build integration

package testinfra

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/salescope/internal/database"
	"github.com/tomtom215/salescope/internal/database/query"
	"github.com/tomtom215/salescope/internal/models"
)

func salesRecord(id, platform, month, region string, code int64, name, gmv string, qty int64) models.SalesRecord {
	return models.SalesRecord{
		ItemID:     id,
		MasterCode: code,
		MasterName: name,
		Region:     region,
		Platform:   platform,
		SaleMonth:  month,
		GMV:        decimal.RequireFromString(gmv),
		Quantity:   qty,
	}
}

// setupPostgres starts PostgreSQL, opens a store on it and loads a small
// fixture in which Blinkit/2025-01 has two detail groups tied on GMV.
func setupPostgres(t *testing.T) *database.DB {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	pg, err := NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("NewPostgresContainer() error = %v", err)
	}
	t.Cleanup(func() { CleanupContainer(t, ctx, pg) })

	builder, err := query.NewBuilder("global_sales_master", query.Defaults{Platform: "Blinkit", SaleMonth: "2025-01"})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	db, err := database.New(ctx, &pg.Config, builder)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	records := []models.SalesRecord{
		salesRecord("i1", "Blinkit", "2025-01", "North", 1, "Atta 5kg", "100.50", 2),
		salesRecord("i2", "Blinkit", "2025-01", "North", 1, "Atta 5kg", "49.50", 1),
		salesRecord("i3", "Blinkit", "2025-01", "South", 2, "Milk 1L", "300.00", 5),
		salesRecord("i4", "Blinkit", "2025-01", "North", 3, "Tea 500g", "150.00", 4),
		salesRecord("i5", "Blinkit", "2025-02", "North", 1, "Atta 5kg", "75.25", 1),
		salesRecord("i6", "Zepto", "2025-01", "East", 2, "Milk 1L", "500.00", 10),
	}
	if err := db.InsertRecords(ctx, records); err != nil {
		t.Fatalf("InsertRecords() error = %v", err)
	}
	return db
}

func TestPostgres_SalesQueries(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	t.Run("distinct platforms", func(t *testing.T) {
		got, err := db.DistinctValues(ctx, query.DimPlatform)
		if err != nil {
			t.Fatalf("DistinctValues() error = %v", err)
		}
		if want := []string{"Blinkit", "Zepto"}; !reflect.DeepEqual(got, want) {
			t.Errorf("DistinctValues() = %v, want %v", got, want)
		}
	})

	t.Run("aggregate summary", func(t *testing.T) {
		rows, err := db.Aggregate(ctx, query.FilterSet{})
		if err != nil {
			t.Fatalf("Aggregate() error = %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("Aggregate() returned %d rows, want 1", len(rows))
		}
		if !rows[0].TotalGMV.Equal(decimal.RequireFromString("1175.25")) || rows[0].RecordCount != 6 {
			t.Errorf("summary = %+v", rows[0])
		}
	})

	t.Run("aggregate grouped by platform", func(t *testing.T) {
		rows, err := db.Aggregate(ctx, query.NewFilterSet("Zepto", "", ""))
		if err != nil {
			t.Fatalf("Aggregate() error = %v", err)
		}
		if len(rows) != 1 || rows[0].Platform != "Zepto" || rows[0].TotalQuantity != 10 {
			t.Errorf("rows = %+v", rows)
		}
	})

	t.Run("detail ordering and tie-break", func(t *testing.T) {
		page, err := db.Detail(ctx, query.FilterSet{}, query.Page{Number: 1, Limit: 10})
		if err != nil {
			t.Fatalf("Detail() error = %v", err)
		}
		var codes []int64
		for _, r := range page.Rows {
			codes = append(codes, r.MasterCode)
		}
		// Milk 300.00 first, then Atta and Tea tied at 150.00 ordered by code.
		if want := []int64{2, 1, 3}; !reflect.DeepEqual(codes, want) {
			t.Errorf("detail codes = %v, want %v", codes, want)
		}
		if page.Pagination.Total != 3 || page.Pagination.TotalPages != 1 {
			t.Errorf("pagination = %+v", page.Pagination)
		}
	})

	t.Run("export streams every row", func(t *testing.T) {
		var n int
		err := db.StreamExport(ctx, query.FilterSet{}, func(*models.DetailRow) error {
			n++
			return nil
		})
		if err != nil {
			t.Fatalf("StreamExport() error = %v", err)
		}
		if n != 3 {
			t.Errorf("streamed %d rows, want 3", n)
		}
	})
}

func TestPostgres_MissingTableIsStatementError(t *testing.T) {
	SkipIfNoDocker(t)

	ctx := context.Background()
	pg, err := NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("NewPostgresContainer() error = %v", err)
	}
	t.Cleanup(func() { CleanupContainer(t, ctx, pg) })

	builder, err := query.NewBuilder("no_such_table", query.Defaults{Platform: "Blinkit", SaleMonth: "2025-01"})
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	db, err := database.New(ctx, &pg.Config, builder)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.DistinctValues(ctx, query.DimRegion)
	var qe *database.QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("error = %v, want *database.QueryError", err)
	}
	if qe.Kind() != database.KindStatement {
		t.Errorf("Kind() = %q, want %q", qe.Kind(), database.KindStatement)
	}
}
