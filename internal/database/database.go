// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tomtom215/salescope/internal/config"
	"github.com/tomtom215/salescope/internal/database/query"
	"github.com/tomtom215/salescope/internal/logging"
)

// sql.Open driver names per config.DatabaseConfig.Driver.
var driverNames = map[string]string{
	config.DriverPostgres: "pgx",
	config.DriverDuckDB:   "duckdb",
}

// DB is the read-side store for the sales fact table. It is safe for
// concurrent use; the only shared state is the *sql.DB pool.
type DB struct {
	conn    *sql.DB
	cfg     *config.DatabaseConfig
	builder *query.Builder
}

// New opens the configured store, verifies it answers a ping within
// ConnectTimeout and, for the embedded DuckDB store, creates the fact table
// and optionally seeds it.
func New(ctx context.Context, cfg *config.DatabaseConfig, builder *query.Builder) (*DB, error) {
	driverName, ok := driverNames[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if cfg.Driver == config.DriverDuckDB {
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg, builder: builder}
	db.configureConnectionPool()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to reach %s: %w", cfg.Target(), err)
	}

	if cfg.Driver == config.DriverDuckDB {
		if err := db.createSchema(ctx); err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
		if cfg.SeedMockData {
			if err := db.SeedMockData(ctx); err != nil {
				closeQuietly(conn)
				return nil, fmt.Errorf("failed to seed mock data: %w", err)
			}
		}
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Str("target", cfg.Target()).
		Str("table", builder.Table()).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Connected to sales store")

	return db, nil
}

// ensureDir creates the parent directory of a DuckDB file.
func ensureDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

// configureConnectionPool bounds the pool. Callers beyond MaxOpenConns
// queue inside database/sql until a connection frees up.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(db.cfg.MaxOpenConns)
	db.conn.SetMaxIdleConns(db.cfg.MaxIdleConns)
	db.conn.SetConnMaxIdleTime(db.cfg.ConnMaxIdleTime)
	db.conn.SetConnMaxLifetime(db.cfg.ConnMaxLifetime)
}

// ensureContext applies the configured query timeout when ctx has no
// deadline of its own.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	timeout := db.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return ErrNilConnection
	}
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Stats returns connection pool statistics.
func (db *DB) Stats() sql.DBStats {
	if db.conn == nil {
		return sql.DBStats{}
	}
	return db.conn.Stats()
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.cfg.Driver
}

// Builder returns the statement builder.
func (db *DB) Builder() *query.Builder {
	return db.builder
}
