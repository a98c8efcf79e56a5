// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Query    QueryConfig    `koanf:"query"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development staging production"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// DatabaseConfig holds fact-table store settings.
//
// The postgres driver reads Host/Port/Name/User/Password/SSL. The duckdb
// driver reads Path (":memory:" for an in-process database) and is intended
// for local development and tests.
type DatabaseConfig struct {
	Driver   string `koanf:"driver" validate:"oneof=postgres duckdb"`
	Host     string `koanf:"host" validate:"required_if=Driver postgres"`
	Port     int    `koanf:"port" validate:"min=1,max=65535"`
	Name     string `koanf:"name" validate:"required_if=Driver postgres"`
	User     string `koanf:"user" validate:"required_if=Driver postgres"`
	Password string `koanf:"password"`
	SSL      bool   `koanf:"ssl"`
	Path     string `koanf:"path" validate:"required_if=Driver duckdb"`

	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1,max=500"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	QueryTimeout    time.Duration `koanf:"query_timeout" validate:"gt=0"`

	// SeedMockData creates and fills the fact table on an empty duckdb store.
	SeedMockData bool `koanf:"seed_mock_data"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverDuckDB {
		if d.Path == ":memory:" {
			return ""
		}
		return d.Path
	}

	sslMode := "disable"
	if d.SSL {
		// Matches the relaxed certificate check of a plain "ssl: true" client.
		sslMode = "require"
	}
	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("connect_timeout", strconv.Itoa(int(d.ConnectTimeout.Seconds())))
	q.Set("application_name", "salescope")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Target describes the store for logs without credentials.
func (d DatabaseConfig) Target() string {
	if d.Driver == DriverDuckDB {
		if d.Path == "" {
			return "duckdb::memory:"
		}
		return "duckdb:" + d.Path
	}
	return fmt.Sprintf("postgres://%s@%s/%s", d.User, net.JoinHostPort(d.Host, strconv.Itoa(d.Port)), d.Name)
}

// Cache backends.
const (
	CacheRedis  = "redis"
	CacheBadger = "badger"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// CacheConfig holds cache-aside settings.
type CacheConfig struct {
	Backend string `koanf:"backend" validate:"oneof=redis badger memory none"`

	// DistinctTTL bounds the staleness of distinct-value lists.
	DistinctTTL time.Duration `koanf:"distinct_ttl" validate:"gt=0"`

	// OperationTimeout bounds each cache get or set so a slow cache cannot
	// stall a request.
	OperationTimeout time.Duration `koanf:"operation_timeout" validate:"gt=0"`

	Redis   RedisConfig   `koanf:"redis"`
	Badger  BadgerConfig  `koanf:"badger"`
	Memory  MemoryConfig  `koanf:"memory"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port" validate:"min=1,max=65535"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db" validate:"min=0"`
	DialTimeout time.Duration `koanf:"dial_timeout" validate:"gt=0"`
	PoolSize    int           `koanf:"pool_size" validate:"min=0"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// BadgerConfig holds the embedded persistent cache settings.
type BadgerConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// MemoryConfig holds the in-process cache settings.
type MemoryConfig struct {
	MaxEntries int `koanf:"max_entries" validate:"min=1"`
}

// BreakerConfig controls the circuit breaker in front of the cache backend.
type BreakerConfig struct {
	Enabled     bool          `koanf:"enabled"`
	MaxFailures uint32        `koanf:"max_failures" validate:"min=1"`
	OpenTimeout time.Duration `koanf:"open_timeout" validate:"gt=0"`
	Interval    time.Duration `koanf:"interval"`
	HalfOpenMax uint32        `koanf:"half_open_max" validate:"min=1"`
}

// QueryConfig holds fact-table and request defaults.
type QueryConfig struct {
	Table            string `koanf:"table" validate:"required,sqlident"`
	DefaultPlatform  string `koanf:"default_platform" validate:"required"`
	DefaultSaleMonth string `koanf:"default_sale_month" validate:"required,yearmonth"`
	MaxPageSize      int    `koanf:"max_page_size" validate:"min=1,max=100000"`
}

// SecurityConfig holds transport protection settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	TrustedProxies    bool          `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format     string `koanf:"format" validate:"oneof=json console"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"min=0"`
	MaxBackups int    `koanf:"max_backups" validate:"min=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"min=0"`
	Compress   bool   `koanf:"compress"`
}
