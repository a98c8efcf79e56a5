// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

/*
Package cache implements the cache-aside layer for small, stable result sets
such as the distinct platform, month and region lists.

# Backends

Every backend implements Store, a byte-oriented get/set with per-entry TTL:

  - RedisStore: shared cache for multi-replica deployments (go-redis)
  - BadgerStore: embedded on-disk cache for single-node deployments
  - MemoryStore: bounded in-process LRU for development and tests
  - NopStore: caching disabled

New selects a backend from config.CacheConfig and wraps it in a
BreakerStore (sony/gobreaker) so an unreachable cache is skipped instead of
adding a timeout to every request.

# Cache-Aside

GetOrCompute looks a key up, decodes it with goccy/go-json on a hit, and on a
miss runs the compute function and writes the encoded result back with the
given TTL:

	reader := cache.NewReader(store, cfg.Cache.OperationTimeout)

	months, cached, err := cache.GetOrCompute(ctx, reader, "distinct:months", 72*time.Hour,
	    func(ctx context.Context) ([]string, error) {
	        return db.DistinctValues(ctx, query.DimSaleMonth)
	    })

Cache errors are logged and counted, never returned. Entries are never
invalidated explicitly; freshness is bounded by the TTL.
*/
package cache
