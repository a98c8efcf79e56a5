// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Package config provides centralized configuration management.

# Configuration Sources

Load layers, later layers winning:
  - Built-in defaults
  - YAML file (CONFIG_PATH, ./config.yaml, /etc/salescope/config.yaml)
  - Environment variables, after loading an optional .env file
    (DOTENV_PATH, default ./.env) with godotenv

Only mapped environment variables are read; see envMappings.

# Environment Variables

Server:
  - PORT / HTTP_PORT: listen port (default: 3000)
  - HTTP_HOST: bind address (default: 0.0.0.0)
  - ENVIRONMENT: development, staging or production

Store:
  - DB_DRIVER: postgres (default) or duckdb
  - DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD, DB_SSL
  - DUCKDB_PATH: duckdb file, or :memory:
  - DB_MAX_CONNECTIONS: pool bound (default: 20)
  - DB_IDLE_TIMEOUT (default: 30s), DB_CONNECT_TIMEOUT (default: 10s)
  - DB_QUERY_TIMEOUT: per-statement timeout (default: 30s)
  - SEED_MOCK_DATA: create and fill the fact table (duckdb only)

Cache:
  - CACHE_BACKEND: redis (default), badger, memory or none
  - CACHE_DISTINCT_TTL: distinct-list TTL (default: 72h)
  - REDIS_HOST, REDIS_PORT (default: 6380), REDIS_PASSWORD, REDIS_DB
  - BADGER_PATH
  - CACHE_BREAKER_ENABLED, CACHE_BREAKER_FAILURES, CACHE_BREAKER_TIMEOUT

Query:
  - SALES_TABLE (default: global_sales_master)
  - DEFAULT_PLATFORM (default: Blinkit), DEFAULT_SALE_MONTH (default: 2025-01)
  - MAX_PAGE_SIZE (default: 1000)

Security:
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - LOG_FILE: rotated log file; LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS, LOG_MAX_AGE_DAYS

# Validation

Struct tags are checked with go-playground/validator (see internal/validation),
followed by cross-field rules in config_validate.go. Load never returns a
config that failed validation.
*/
package config
