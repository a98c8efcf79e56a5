// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Package services provides suture.Service wrappers for Salescope components.

Each wrapper turns a component lifecycle into suture's context-aware
Serve(ctx) error and implements fmt.Stringer so supervisor logs name it.

  - HTTPServerService: binds the listener, serves, and shuts down gracefully
    on cancellation
  - PoolStatsService: publishes database/sql pool statistics to Prometheus
  - UptimeService: keeps the app_uptime_seconds gauge current

Returning an error from Serve asks the supervisor for a restart; returning
after the context is done ends the service.
*/
package services
