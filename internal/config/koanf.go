// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/salescope/config.yaml",
	"/etc/salescope/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the .env file path.
const DotEnvPathEnvVar = "DOTENV_PATH"

// defaultConfig returns a Config with every default applied. Defaults are
// loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute, // exports stream the full result set
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			Name:            "sales",
			User:            "postgres",
			Password:        "",
			SSL:             false,
			Path:            "",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxIdleTime: 30 * time.Second,
			ConnMaxLifetime: time.Hour,
			ConnectTimeout:  10 * time.Second,
			QueryTimeout:    30 * time.Second,
			SeedMockData:    false,
		},
		Cache: CacheConfig{
			Backend:          CacheRedis,
			DistinctTTL:      259200 * time.Second, // 3 days
			OperationTimeout: 500 * time.Millisecond,
			Redis: RedisConfig{
				Host:        "localhost",
				Port:        6380,
				DB:          0,
				DialTimeout: 5 * time.Second,
				PoolSize:    0, // go-redis default: 10 per CPU
			},
			Badger: BadgerConfig{
				Path: "/data/cache",
			},
			Memory: MemoryConfig{
				MaxEntries: 1024,
			},
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				OpenTimeout: 30 * time.Second,
				Interval:    time.Minute,
				HalfOpenMax: 1,
			},
		},
		Query: QueryConfig{
			Table:            "global_sales_master",
			DefaultPlatform:  "Blinkit",
			DefaultSaleMonth: "2025-01",
			MaxPageSize:      1000,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Caller:     false,
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads configuration from these layers, later layers winning:
//  1. Defaults
//  2. Optional YAML config file
//  3. Environment variables, including those from an optional .env file
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads a .env file into the process environment. Variables
// that are already set are not overridden. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// The unprefixed DB_*, REDIS_* and PORT names are the deployment contract of
// the existing service and must keep working.
var envMappings = map[string]string{
	// Server
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Database
	"db_driver":          "database.driver",
	"db_host":            "database.host",
	"db_port":            "database.port",
	"db_name":            "database.name",
	"db_user":            "database.user",
	"db_password":        "database.password",
	"db_ssl":             "database.ssl",
	"duckdb_path":        "database.path",
	"db_max_connections": "database.max_open_conns",
	"db_max_idle":        "database.max_idle_conns",
	"db_idle_timeout":    "database.conn_max_idle_time",
	"db_connect_timeout": "database.connect_timeout",
	"db_query_timeout":   "database.query_timeout",
	"seed_mock_data":     "database.seed_mock_data",
	"db_max_lifetime":    "database.conn_max_lifetime",

	// Cache
	"cache_backend":           "cache.backend",
	"cache_distinct_ttl":      "cache.distinct_ttl",
	"cache_operation_timeout": "cache.operation_timeout",
	"redis_host":              "cache.redis.host",
	"redis_port":              "cache.redis.port",
	"redis_password":          "cache.redis.password",
	"redis_db":                "cache.redis.db",
	"redis_pool_size":         "cache.redis.pool_size",
	"badger_path":             "cache.badger.path",
	"badger_in_memory":        "cache.badger.in_memory",
	"cache_max_entries":       "cache.memory.max_entries",
	"cache_breaker_enabled":   "cache.breaker.enabled",
	"cache_breaker_failures":  "cache.breaker.max_failures",
	"cache_breaker_timeout":   "cache.breaker.open_timeout",

	// Query
	"sales_table":        "query.table",
	"default_platform":   "query.default_platform",
	"default_sale_month": "query.default_sale_month",
	"max_page_size":      "query.max_page_size",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"trusted_proxies":     "security.trusted_proxies",

	// Logging
	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
	"log_file":         "logging.file",
	"log_max_size_mb":  "logging.max_size_mb",
	"log_max_backups":  "logging.max_backups",
	"log_max_age_days": "logging.max_age_days",
	"log_compress":     "logging.compress",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped so unrelated environment
// does not leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
