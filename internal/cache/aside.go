// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salescope/internal/logging"
	"github.com/tomtom215/salescope/internal/metrics"
)

// DefaultOperationTimeout bounds a single cache Get or Set when the reader
// is created without one.
const DefaultOperationTimeout = 500 * time.Millisecond

// Reader implements cache-aside reads over a Store. The store is the only
// shared state; a Reader holds no locks and concurrent misses for the same
// key each compute and write independently.
type Reader struct {
	store   Store
	timeout time.Duration
}

// NewReader creates a Reader. A nil store behaves like NopStore.
func NewReader(store Store, opTimeout time.Duration) *Reader {
	if store == nil {
		store = NopStore{}
	}
	if opTimeout <= 0 {
		opTimeout = DefaultOperationTimeout
	}
	return &Reader{store: store, timeout: opTimeout}
}

// Backend returns the name of the underlying store.
func (r *Reader) Backend() string { return r.store.Name() }

// Ping checks the underlying store.
func (r *Reader) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.store.Ping(ctx)
}

// GetOrCompute returns the cached value for key, or computes, stores and
// returns it. The boolean reports whether the value came from the cache.
//
// Cache failures never fail the call: a failed or undecodable lookup is
// treated as a miss and a failed write is logged. Only an error from
// compute is returned.
//
//	platforms, cached, err := cache.GetOrCompute(ctx, reader, "distinct:platforms", ttl,
//	    func(ctx context.Context) ([]string, error) { return db.DistinctValues(ctx, query.DimPlatform) })
func GetOrCompute[T any](ctx context.Context, r *Reader, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, bool, error) {
	if v, ok := lookup[T](ctx, r, key); ok {
		metrics.RecordCacheLookup(key, true)
		return v, true, nil
	}
	metrics.RecordCacheLookup(key, false)

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	r.populate(ctx, key, v, ttl)
	return v, false, nil
}

// lookup returns the decoded value and true on a usable hit.
func lookup[T any](ctx context.Context, r *Reader, key string) (T, bool) {
	var v T

	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	data, err := r.store.Get(opCtx, key)
	if errors.Is(err, ErrCacheMiss) {
		metrics.RecordCacheOperation(r.store.Name(), "get", time.Since(start), nil)
		return v, false
	}
	metrics.RecordCacheOperation(r.store.Name(), "get", time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("key", key).
			Str("backend", r.store.Name()).
			Msg("Cache read failed, falling back to store")
		return v, false
	}

	if err := json.Unmarshal(data, &v); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		var zero T
		return zero, false
	}
	return v, true
}

// populate writes v under key. Failures are logged and swallowed.
func (r *Reader) populate(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err = r.store.Set(opCtx, key, data, ttl)
	metrics.RecordCacheOperation(r.store.Name(), "set", time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("key", key).
			Str("backend", r.store.Name()).
			Msg("Cache write failed")
	}
}
