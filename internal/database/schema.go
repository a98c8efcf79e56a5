// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/salescope/internal/models"
)

// createSchema creates the fact table in the embedded store. Against
// PostgreSQL the table is owned by the ingestion pipeline and never created
// here.
func (db *DB) createSchema(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	table := db.builder.Table()
	var statements []string

	if schema, _, ok := strings.Cut(table, "."); ok {
		statements = append(statements, "CREATE SCHEMA IF NOT EXISTS "+schema)
	}

	statements = append(statements,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			item_id     VARCHAR PRIMARY KEY,
			master_code BIGINT NOT NULL,
			master_name VARCHAR NOT NULL,
			region      VARCHAR NOT NULL,
			platform    VARCHAR NOT NULL,
			sale_month  VARCHAR NOT NULL,
			gmv         DECIMAL(18, 2) NOT NULL,
			quantity    BIGINT NOT NULL
		)`, table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (platform, sale_month, region)",
			indexName(table, "platform_month_region"), table),
	)

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func indexName(table, suffix string) string {
	return "idx_" + strings.ReplaceAll(table, ".", "_") + "_" + suffix
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// InsertRecords writes records into the embedded store in one transaction.
// GMV is bound as a float and rounded by the DECIMAL(18, 2) column, which
// is exact for two-decimal amounts below 10^13.
// It backs mock seeding and tests; production data arrives through the
// external ingestion pipeline.
func (db *DB) InsertRecords(ctx context.Context, records []models.SalesRecord) error {
	if db.conn == nil {
		return ErrNilConnection
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s
		(item_id, master_code, master_name, region, platform, sale_month, gmv, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, db.builder.Table()))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer closeWithLog(stmt, nil, "prepared statement")

	for i := range records {
		r := &records[i]
		if _, err := stmt.ExecContext(ctx,
			r.ItemID, r.MasterCode, r.MasterName, r.Region, r.Platform, r.SaleMonth, r.GMV.Round(2).InexactFloat64(), r.Quantity,
		); err != nil {
			return fmt.Errorf("insert %s: %w", r.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
