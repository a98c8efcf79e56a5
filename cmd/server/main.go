// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/salescope/internal/api"
	"github.com/tomtom215/salescope/internal/cache"
	"github.com/tomtom215/salescope/internal/config"
	"github.com/tomtom215/salescope/internal/database"
	"github.com/tomtom215/salescope/internal/database/query"
	"github.com/tomtom215/salescope/internal/logging"
	"github.com/tomtom215/salescope/internal/metrics"
	"github.com/tomtom215/salescope/internal/supervisor"
	"github.com/tomtom215/salescope/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const monitorInterval = 15 * time.Second

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		File: logging.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		},
	})
	defer func() {
		if err := logging.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing log file")
		}
	}()

	metrics.SetAppInfo(version)
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("driver", cfg.Database.Driver).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Starting Salescope")

	if cfg.IsProduction() && cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to restrict it")
	}

	builder, err := query.NewBuilder(cfg.Query.Table, query.Defaults{
		Platform:  cfg.Query.DefaultPlatform,
		SaleMonth: cfg.Query.DefaultSaleMonth,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid query configuration")
	}

	// The store must be reachable at boot; the cache is optional.
	db, err := database.New(context.Background(), &cfg.Database, builder)
	if err != nil {
		logging.Fatal().Err(err).Str("target", cfg.Database.Target()).Msg("Failed to connect to sales store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	store := openCache(&cfg.Cache)
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Str("backend", store.Name()).Msg("Error closing cache")
		}
	}()
	reader := cache.NewReader(store, cfg.Cache.OperationTimeout)

	handler := api.NewHandler(db, reader, cfg)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))

	server := &http.Server{
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMonitorService(services.NewPoolStatsService(db, monitorInterval))
	tree.AddMonitorService(services.NewUptimeService(startTime, monitorInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := tree.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Salescope stopped")
}

// openCache opens the configured cache backend. Any failure degrades to no
// caching rather than aborting startup: reads fall back to the store.
func openCache(cfg *config.CacheConfig) cache.Store {
	store, err := cache.New(cfg)
	if err != nil {
		logging.Warn().Err(err).Str("backend", cfg.Backend).Msg("Cache unavailable, serving without cache")
		return cache.NopStore{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		// Keep the store: the breaker stops calling it while it is down and
		// it is used again once it recovers.
		logging.Warn().Err(err).Str("backend", store.Name()).Msg("Cache ping failed at startup, requests will fall back to the store")
	} else {
		logging.Info().Str("backend", store.Name()).Msg("Cache connected")
	}
	return store
}
