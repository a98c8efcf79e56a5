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

	"github.com/tomtom215/salescope/internal/config"
)

func openTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadgerStore(config.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestBadger(t)

	if _, err := s.Get(ctx, "distinct:regions"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get() on empty store error = %v, want ErrCacheMiss", err)
	}

	if err := s.Set(ctx, "distinct:regions", []byte(`["North","South"]`), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "distinct:regions")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `["North","South"]` {
		t.Errorf("Get() = %s", got)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestBadgerStore_TTL(t *testing.T) {
	if testing.Short() {
		t.Skip("badger TTL has one-second resolution")
	}
	t.Parallel()
	ctx := context.Background()
	s := openTestBadger(t)

	if err := s.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(2100 * time.Millisecond)

	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after TTL error = %v, want ErrCacheMiss", err)
	}
}

func TestBadgerStore_PingAfterClose(t *testing.T) {
	t.Parallel()
	s, err := OpenBadgerStore(config.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping() after Close should fail")
	}
}
