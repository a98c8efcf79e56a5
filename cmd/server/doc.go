// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Command server runs the Salescope HTTP API.

Startup order:

 1. Load configuration (defaults, config.yaml, .env, environment)
 2. Initialize zerolog, optionally with a rotated log file
 3. Connect to the sales store (PostgreSQL or DuckDB); failure is fatal
 4. Open the cache backend; failure degrades to serving without a cache
 5. Build the chi router and start the supervisor tree

The HTTP server and the background reporters run under suture. SIGINT or
SIGTERM cancels the tree, which drains in-flight requests within
SHUTDOWN_TIMEOUT.

Build with a version string:

	go build -ldflags "-X main.version=1.2.0" ./cmd/server
*/
package main
