// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

//go:build integration

package testinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tomtom215/salescope/internal/config"
)

const (
	// DefaultPostgresImage is the PostgreSQL image used for store tests.
	DefaultPostgresImage = "postgres:16-alpine"

	postgresPort     = "5432/tcp"
	postgresUser     = "salescope"
	postgresPassword = "salescope"
	postgresDB       = "salescope"
)

// salesTableDDL mirrors the fact table the ingestion pipeline owns in
// production.
const salesTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	item_id     VARCHAR PRIMARY KEY,
	master_code BIGINT NOT NULL,
	master_name VARCHAR NOT NULL,
	region      VARCHAR NOT NULL,
	platform    VARCHAR NOT NULL,
	sale_month  VARCHAR(7) NOT NULL,
	gmv         NUMERIC(18, 2) NOT NULL,
	quantity    BIGINT NOT NULL
)`

// PostgresContainer is a running PostgreSQL instance with an empty fact
// table.
type PostgresContainer struct {
	testcontainers.Container
	Config config.DatabaseConfig
}

// PostgresOption configures the PostgreSQL container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	table        string
	startTimeout time.Duration
}

// WithPostgresImage sets a custom PostgreSQL image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithSalesTable sets the fact table created at startup.
func WithSalesTable(table string) PostgresOption {
	return func(c *postgresConfig) {
		c.table = table
	}
}

// NewPostgresContainer starts PostgreSQL and creates the fact table.
// Config is ready to pass to database.New.
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{
		image:        DefaultPostgresImage,
		table:        "global_sales_master",
		startTimeout: 90 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		// The entrypoint restarts the server once after init.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, host, err := startContainer(ctx, req)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	pc := &PostgresContainer{
		Container: container,
		Config: config.DatabaseConfig{
			Driver:          config.DriverPostgres,
			Host:            host,
			Port:            port.Int(),
			Name:            postgresDB,
			User:            postgresUser,
			Password:        postgresPassword,
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxIdleTime: time.Minute,
			ConnMaxLifetime: time.Hour,
			ConnectTimeout:  10 * time.Second,
			QueryTimeout:    10 * time.Second,
		},
	}

	if err := pc.createTable(ctx, cfg.table); err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("create sales table: %w", err)
	}
	return pc, nil
}

func (pc *PostgresContainer) createTable(ctx context.Context, table string) error {
	conn, err := sql.Open("pgx", pc.Config.DSN())
	if err != nil {
		return err
	}
	defer conn.Close() //nolint:errcheck

	_, err = conn.ExecContext(ctx, fmt.Sprintf(salesTableDDL, table))
	return err
}
