// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

// Package database is the read side of the sales fact table.
//
// DB runs the statements produced by package query against either
// PostgreSQL (pgx through database/sql) or an embedded DuckDB file or
// in-memory database. Both accept $n placeholders, so the same statements
// serve both engines.
//
// Every read returns a *QueryError on failure. Its Kind separates a lost
// connection from a timeout or a rejected statement; the HTTP layer logs
// the kind and answers with a generic message.
//
// Files:
//   - database.go: connection lifecycle and pool configuration
//   - sales.go: distinct, aggregate, detail, count and export reads
//   - scan.go: row scanners, including decimal GMV scanning
//   - schema.go: embedded fact table and bulk inserts
//   - seed.go: mock data for the embedded store
//   - errors.go: QueryError classification and close helpers
package database
