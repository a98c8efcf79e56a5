// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Round-trip behaviour against a real server is covered by the
// integration-tagged tests in internal/testinfra.

func TestRedisStore_UnreachableIsNotAMiss(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewRedisStoreFromClient(client)
	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := s.Get(ctx, "distinct:platforms")
	if err == nil {
		t.Fatal("Get() against closed port should fail")
	}
	if errors.Is(err, ErrCacheMiss) {
		t.Error("connection failure must not be reported as a miss")
	}
	if err := s.Ping(ctx); err == nil {
		t.Error("Ping() against closed port should fail")
	}
	if s.Name() != "redis" {
		t.Errorf("Name() = %q", s.Name())
	}
}
