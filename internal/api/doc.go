// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Package api provides the HTTP layer for Salescope.

Endpoints (all GET):

	/api/sales/platforms    distinct platforms, cache-aside
	/api/sales/months       distinct sale months, cache-aside
	/api/sales/regions      distinct regions, cache-aside
	/api/sales/aggregated   totals grouped by the supplied filters
	/api/sales/detailed     per-SKU rows, paginated, with defaults
	/api/sales/export       every matching detail row; format=csv streams CSV
	/health                 store and cache connectivity
	/metrics                Prometheus exposition

Every JSON response uses the same envelope:

	{"success": true, "data": [...], "cached": true}
	{"success": true, "data": [...], "pagination": {"page": 2, "limit": 10, "total": 95, "totalPages": 10}}
	{"success": false, "error": "Failed to fetch detailed sales data"}

Store failures are logged with their QueryError kind and answered with a
static message and status 500. Cache failures never reach the caller.

Usage:

	handler := api.NewHandler(db, cache.NewReader(store, cfg.Cache.OperationTimeout), cfg)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}

Middleware order: request ID and correlation ID, optional RealIP, access
log, panic recovery, CORS, Prometheus metrics; the /api/sales group adds
rate limiting and security headers, and export adds gzip.
*/
package api
