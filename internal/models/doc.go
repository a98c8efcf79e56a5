// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Package models defines the data structures shared by the store, the cache
and the HTTP API.

Model Categories:

1. Fact table:
  - SalesRecord: one row of the sales fact table (read-only to this service)

2. Query results:
  - AggregateRow: totals grouped by the filtered dimensions
  - DetailRow: per-SKU totals within one platform, month and region
  - DetailPage: a page of DetailRow plus its Pagination block

3. API envelope:
  - APIResponse: {success, data, cached, pagination, error}
  - HealthStatus: /health body

Money:

GMV values are shopspring/decimal values. They serialize as JSON strings
("1175.25") so totals never pick up float rounding.

Thread Safety:

Models are plain data with no internal locking. They are safe to share for
reading once built.
*/
package models
