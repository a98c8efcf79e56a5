// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package database

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"strings"
	"testing"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/shopspring/decimal"
)

// mockCloser implements io.Closer for testing
type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

func TestCloseWithLog(t *testing.T) {
	t.Run("nil closer does not panic", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		closeWithLog(nil, logger, "test")

		if buf.Len() > 0 {
			t.Errorf("Expected no log output for nil closer, got: %s", buf.String())
		}
	})

	t.Run("error during close is logged", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		closer := &mockCloser{err: errors.New("close failed")}
		closeWithLog(closer, logger, "rows")

		if !closer.closed {
			t.Error("Expected closer to be closed")
		}
		if !strings.Contains(buf.String(), "close failed") || !strings.Contains(buf.String(), "rows") {
			t.Errorf("log output = %q", buf.String())
		}
	})
}

func TestCloseQuietly(t *testing.T) {
	closer := &mockCloser{err: errors.New("ignored")}
	closeQuietly(closer)
	if !closer.closed {
		t.Error("Expected closer to be closed")
	}
	closeQuietly(nil)
}

type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return false }

var _ net.Error = timeoutNetError{}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindTimeout},
		{"canceled", context.Canceled, KindTimeout},
		{"bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), KindConnection},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, KindConnection},
		{"custom net error", timeoutNetError{}, KindConnection},
		{"refused message", errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"), KindConnection},
		{"closed pool", errors.New("sql: database is closed"), KindConnection},
		{"nil connection", ErrNilConnection, KindConnection},
		{"syntax", errors.New(`ERROR: relation "global_sales_master" does not exist (SQLSTATE 42P01)`), KindStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestQueryError_Wrapping(t *testing.T) {
	t.Parallel()

	base := fmt.Errorf("query: %w", context.DeadlineExceeded)
	err := error(newQueryError("detail", base))

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("QueryError must unwrap to the driver error")
	}
	if !strings.Contains(err.Error(), "detail") || !strings.Contains(err.Error(), KindTimeout) {
		t.Errorf("Error() = %q", err.Error())
	}
	if IsConnectionError(err) {
		t.Error("timeout is not a connection error")
	}
	if IsConnectionError(errors.New("connection refused")) {
		t.Error("IsConnectionError requires a QueryError")
	}
}

func TestGMVScanner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  interface{}
		want string
	}{
		{"null sum", nil, "0"},
		{"duckdb decimal", duckdb.Decimal{Width: 38, Scale: 2, Value: big.NewInt(119525)}, "1195.25"},
		{"duckdb decimal nil value", duckdb.Decimal{Width: 38, Scale: 2}, "0"},
		{"pg numeric text", "675.25", "675.25"},
		{"pg numeric bytes", []byte("0.10"), "0.1"},
		{"double", float64(12.5), "12.5"},
		{"integer", int64(42), "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var d decimal.Decimal
			if err := (gmvScanner{&d}).Scan(tt.src); err != nil {
				t.Fatalf("Scan(%v) error = %v", tt.src, err)
			}
			if !d.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Scan(%v) = %s, want %s", tt.src, d, tt.want)
			}
		})
	}
}

func TestGMVScanner_RejectsGarbage(t *testing.T) {
	t.Parallel()
	var d decimal.Decimal
	if err := (gmvScanner{&d}).Scan("not-a-number"); err == nil {
		t.Error("Scan(garbage) expected error")
	}
}
