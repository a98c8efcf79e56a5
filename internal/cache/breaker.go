// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package cache

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/salescope/internal/config"
	"github.com/tomtom215/salescope/internal/logging"
	"github.com/tomtom215/salescope/internal/metrics"
)

// BreakerStore wraps a Store with a circuit breaker. After MaxFailures
// consecutive backend errors the circuit opens and calls fail fast with
// gobreaker.ErrOpenState, so a dead cache costs nothing per request until
// OpenTimeout elapses and a probe is let through.
//
// Misses are successes: only transport and backend errors trip the breaker.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]byte]
	name string
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Store, cfg config.BreakerConfig) *BreakerStore {
	name := "cache-" + next.Name()
	maxFailures := cfg.MaxFailures

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	logger := logging.WithComponent("cache")

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMax,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), stateToFloat(to))
		},
	})

	return &BreakerStore{next: next, cb: cb, name: name}
}

// Get forwards to the wrapped store unless the circuit is open.
func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	return b.execute(func() ([]byte, error) {
		return b.next.Get(ctx, key)
	})
}

// Set forwards to the wrapped store unless the circuit is open.
func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.execute(func() ([]byte, error) {
		return nil, b.next.Set(ctx, key, value, ttl)
	})
	return err
}

// Ping bypasses the breaker so health checks see the real backend state.
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

// Close closes the wrapped store.
func (b *BreakerStore) Close() error {
	return b.next.Close()
}

// Name returns the wrapped backend's name.
func (b *BreakerStore) Name() string { return b.next.Name() }

// State returns the current circuit state.
func (b *BreakerStore) State() gobreaker.State { return b.cb.State() }

func (b *BreakerStore) execute(fn func() ([]byte, error)) ([]byte, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil, errors.Is(err, ErrCacheMiss):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return result, err
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
