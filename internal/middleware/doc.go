// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Package middleware provides HTTP middleware shared by the API router.

  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - AccessLog: one structured log line per request, warn when slow, error
    on 5xx

Both are plain func(http.Handler) http.Handler and plug into chi's r.Use:

	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(time.Second))

Request IDs, CORS, rate limiting and panic recovery come from chi and its
companion modules and are wired in the api package.
*/
package middleware
