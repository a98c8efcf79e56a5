// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/salescope/internal/database/query"
	"github.com/tomtom215/salescope/internal/metrics"
	"github.com/tomtom215/salescope/internal/models"
)

// abortScan stops queryAndScan on behalf of the caller. The wrapped error
// is returned as-is instead of as a QueryError, so a failing consumer (for
// example a client that hung up mid-export) is not blamed on the store.
type abortScan struct {
	err error
}

func (a *abortScan) Error() string { return a.err.Error() }

// queryAndScan runs stmt and calls scanner once per row. Errors are wrapped
// in a QueryError for op and recorded in the query metrics.
func (db *DB) queryAndScan(ctx context.Context, op string, stmt query.Statement, scanner func(*sql.Rows) error) (err error) {
	if db.conn == nil {
		return newQueryError(op, ErrNilConnection)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	n := 0
	aborted := false
	defer func() {
		queryErr := err
		if aborted {
			queryErr = nil
		}
		metrics.RecordDBQuery(op, db.builder.Table(), time.Since(start), queryErr)
		if queryErr == nil {
			metrics.RecordDBRows(op, n)
		}
	}()

	rows, err := db.conn.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return newQueryError(op, fmt.Errorf("query: %w", err))
	}
	defer closeWithLog(rows, nil, "rows")

	for rows.Next() {
		if scanErr := scanner(rows); scanErr != nil {
			var abort *abortScan
			if errors.As(scanErr, &abort) {
				aborted = true
				return abort.err
			}
			return newQueryError(op, fmt.Errorf("scan row: %w", scanErr))
		}
		n++
	}

	if err := rows.Err(); err != nil {
		return newQueryError(op, fmt.Errorf("rows iteration: %w", err))
	}

	return nil
}

// maxPrealloc caps slice capacity reserved from a caller-supplied limit.
const maxPrealloc = 256

// DistinctValues lists the distinct values of d in ascending order.
func (db *DB) DistinctValues(ctx context.Context, d query.Dimension) ([]string, error) {
	values := make([]string, 0, 16)
	err := db.queryAndScan(ctx, "distinct_"+d.Column(), db.builder.BuildDistinct(d), func(rows *sql.Rows) error {
		var v string
		if err := rows.Scan(&v); err != nil {
			return err
		}
		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Aggregate returns totals grouped by the active filter dimensions, or a
// single whole-table row when no filter is active.
func (db *DB) Aggregate(ctx context.Context, f query.FilterSet) ([]models.AggregateRow, error) {
	stmt := db.builder.BuildAggregate(f)
	result := make([]models.AggregateRow, 0, 8)
	err := db.queryAndScan(ctx, "aggregate", stmt, func(rows *sql.Rows) error {
		var r models.AggregateRow
		if err := scanAggregateRow(rows, stmt.Dimensions, &r); err != nil {
			return err
		}
		result = append(result, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Detail returns one page of per-SKU rows plus the total number of groups
// matching f. The count runs as a second, independent statement with the
// same predicate; the two are not read in one transaction.
func (db *DB) Detail(ctx context.Context, f query.FilterSet, page query.Page) (*models.DetailPage, error) {
	rows := make([]models.DetailRow, 0, min(page.Limit, maxPrealloc))
	err := db.queryAndScan(ctx, "detail", db.builder.BuildDetail(f, page.Limit, page.Offset()), func(r *sql.Rows) error {
		var row models.DetailRow
		if err := scanDetailRow(r, &row); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	total, err := db.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	return &models.DetailPage{
		Rows: rows,
		Pagination: models.Pagination{
			Page:       page.Number,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: query.TotalPages(total, page.Limit),
		},
	}, nil
}

// Count returns the number of detail groups matching f.
func (db *DB) Count(ctx context.Context, f query.FilterSet) (int64, error) {
	var total int64
	err := db.queryAndScan(ctx, "count", db.builder.BuildCount(f), func(rows *sql.Rows) error {
		return rows.Scan(&total)
	})
	return total, err
}

// Export returns every detail row matching f.
func (db *DB) Export(ctx context.Context, f query.FilterSet) ([]models.DetailRow, error) {
	result := make([]models.DetailRow, 0, 64)
	err := db.StreamExport(ctx, f, func(r *models.DetailRow) error {
		result = append(result, *r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StreamExport calls fn for every detail row matching f without buffering
// the result set. The row passed to fn is reused between calls. An error
// from fn stops the scan and is returned unchanged.
func (db *DB) StreamExport(ctx context.Context, f query.FilterSet, fn func(*models.DetailRow) error) error {
	var row models.DetailRow
	return db.queryAndScan(ctx, "export", db.builder.BuildExport(f), func(rows *sql.Rows) error {
		row = models.DetailRow{}
		if err := scanDetailRow(rows, &row); err != nil {
			return err
		}
		if err := fn(&row); err != nil {
			return &abortScan{err: err}
		}
		return nil
	})
}
