// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Package metrics provides Prometheus metrics for the query service.

All collectors are registered on the default registry through promauto and
exposed at /metrics.

# Available Metrics

Store:
  - db_query_duration_seconds{operation, table}
  - db_query_errors_total{operation, table, error_type}
  - db_rows_returned{operation}
  - db_connections_open, db_connections_in_use, db_connection_waits

API:
  - api_requests_total{method, endpoint, status}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Cache-aside:
  - cache_hits_total{key}, cache_misses_total{key}
  - cache_errors_total{backend, operation}
  - cache_operation_duration_seconds{backend, operation}

Circuit breaker:
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

System:
  - app_info{version, go_version}
  - app_uptime_seconds

error_type is derived from the error: "timeout" and "canceled" for context
errors, the value of a Kind() string method when the error has one, and
"other" otherwise. Raw error text is never used as a label.
*/
package metrics
