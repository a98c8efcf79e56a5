// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/salescope/internal/config"
)

// ErrCacheMiss is returned by Store.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Store is a byte-oriented external cache with per-entry TTL.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored bytes or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error

	// Name identifies the backend in logs and metrics.
	Name() string
}

// New opens the backend selected by cfg.Backend and, when enabled, wraps it
// in a circuit breaker. The returned store has not been pinged.
func New(cfg *config.CacheConfig) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case config.CacheRedis:
		store = NewRedisStore(&cfg.Redis)
	case config.CacheBadger:
		store, err = OpenBadgerStore(cfg.Badger)
	case config.CacheMemory:
		store = NewMemoryStore(cfg.Memory.MaxEntries)
	case config.CacheNone:
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Breaker.Enabled {
		store = NewBreakerStore(store, cfg.Breaker)
	}
	return store, nil
}

// NopStore never stores anything; every Get is a miss.
type NopStore struct{}

// Get always returns ErrCacheMiss.
func (NopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

// Set discards the value.
func (NopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Ping always succeeds.
func (NopStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (NopStore) Close() error { return nil }

// Name returns "none".
func (NopStore) Name() string { return config.CacheNone }

// Verify interface implementations at compile time
var (
	_ Store = NopStore{}
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*BadgerStore)(nil)
	_ Store = (*BreakerStore)(nil)
)
