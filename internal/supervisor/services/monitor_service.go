// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/tomtom215/salescope/internal/metrics"
)

const defaultMonitorInterval = 15 * time.Second

// StatsSource reports connection pool statistics. *database.DB satisfies it.
type StatsSource interface {
	Stats() sql.DBStats
}

// PoolStatsService copies pool statistics into the db_connections_* gauges.
type PoolStatsService struct {
	source   StatsSource
	interval time.Duration
}

// NewPoolStatsService creates a PoolStatsService sampling every interval.
func NewPoolStatsService(source StatsSource, interval time.Duration) *PoolStatsService {
	if interval <= 0 {
		interval = defaultMonitorInterval
	}
	return &PoolStatsService{source: source, interval: interval}
}

// Serve implements suture.Service.
func (p *PoolStatsService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolStats(p.source.Stats())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *PoolStatsService) String() string {
	return "pool-stats"
}

// UptimeService keeps app_uptime_seconds current.
type UptimeService struct {
	start    time.Time
	interval time.Duration
}

// NewUptimeService creates an UptimeService measuring from start.
func NewUptimeService(start time.Time, interval time.Duration) *UptimeService {
	if interval <= 0 {
		interval = defaultMonitorInterval
	}
	return &UptimeService{start: start, interval: interval}
}

// Serve implements suture.Service.
func (u *UptimeService) Serve(ctx context.Context) error {
	metrics.TrackUptime(ctx, u.start, u.interval)
	return ctx.Err()
}

func (u *UptimeService) String() string {
	return "uptime"
}
