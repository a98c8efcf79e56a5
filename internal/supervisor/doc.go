// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Package supervisor runs the long-lived parts of Salescope under suture v4.

	RootSupervisor ("salescope")
	├── MonitorSupervisor ("monitor-layer")
	│   ├── PoolStatsService
	│   └── UptimeService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Canceling the context
passed to Serve stops every service, each within TreeConfig.ShutdownTimeout.
Supervisor events are logged through sutureslog into the zerolog stream:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))
	tree.AddMonitorService(services.NewPoolStatsService(db, 15*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
