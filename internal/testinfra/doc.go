// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// Everything here is behind the integration build tag and uses
// testcontainers-go to run the real backends the service talks to in
// production:
//
//   - PostgreSQL, with the fact table created empty, for the sales store
//   - Redis for the cache-aside reader
//
// Run with:
//
//	go test -tags integration ./internal/testinfra/...
//
// Tests are skipped when Docker is unavailable. The first run pulls the
// images; later runs use the local cache.
package testinfra
