// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

// Package query builds the parameterized SQL statements run against the
// sales fact table.
//
// # Filter sets
//
// A FilterSet carries the optional platform, sale_month and region filters
// of a request. Dimensions are always visited in the fixed order platform,
// sale_month, region, so WHERE, GROUP BY and ORDER BY can never disagree:
//
//	f := query.ParseFilterSet(r.URL.Query())
//	stmt := builder.BuildAggregate(f)
//	// SELECT platform, region, SUM(gmv) AS total_gmv, ... FROM global_sales_master
//	// WHERE platform = $1 AND region = $2 GROUP BY platform, region ORDER BY platform, region
//	rows, err := db.QueryContext(ctx, stmt.SQL, stmt.Args...)
//
// # Statements
//
//   - BuildAggregate: totals grouped by the active filter dimensions
//   - BuildDetail: one page of per-SKU totals, defaults applied
//   - BuildCount: number of per-SKU groups for the same predicate
//   - BuildExport: every per-SKU row, no LIMIT/OFFSET
//   - BuildDistinct: sorted distinct values of one dimension
//
// Placeholders use the $n form understood by both PostgreSQL (pgx) and
// DuckDB, numbered in the order arguments are bound. len(Statement.Args)
// always equals the highest placeholder index.
//
// # Pagination
//
// ParsePage never fails; bad input degrades to page 1, limit 10.
// TotalPages is ceil(total/limit) where total comes from BuildCount.
//
// # Thread Safety
//
// Builder is immutable after construction and safe for concurrent use.
// FilterSet and Statement are values owned by a single request.
package query
