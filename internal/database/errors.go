// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/tomtom215/salescope/internal/logging"
)

// ErrNilConnection is returned when the DB has no open connection pool.
var ErrNilConnection = errors.New("database connection is nil")

// Error kinds reported by QueryError.Kind.
const (
	KindConnection = "connection"
	KindTimeout    = "timeout"
	KindStatement  = "statement"
)

// QueryError is returned by every read on DB. It carries the logical
// operation and a coarse classification of the driver error so callers and
// metrics can tell a lost store from a bad statement without parsing
// driver messages.
type QueryError struct {
	Op   string
	Err  error
	kind string
}

func newQueryError(op string, err error) *QueryError {
	return &QueryError{Op: op, Err: err, kind: classify(err)}
}

// Error implements error.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query failed (%s): %v", e.Op, e.kind, e.Err)
}

// Unwrap returns the driver error.
func (e *QueryError) Unwrap() error { return e.Err }

// Kind returns KindConnection, KindTimeout or KindStatement.
func (e *QueryError) Kind() string { return e.kind }

// IsConnectionError reports whether err is a QueryError caused by losing
// the store.
func IsConnectionError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.kind == KindConnection
}

func classify(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	case isConnectionError(err):
		return KindConnection
	default:
		return KindStatement
	}
}

// isConnectionError detects transport-level failures. Drivers wrap these
// inconsistently, so the message is checked as a last resort.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, ErrNilConnection) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "bad connection") ||
		strings.Contains(errMsg, "failed to connect") ||
		strings.Contains(errMsg, "database is closed")
}

// closeWithLog closes a resource and logs any error
// Use this for cleanup operations where errors should be acknowledged but not fail the operation
func closeWithLog(closer io.Closer, logger *slog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		if logger != nil {
			logger.Error("failed to close resource",
				"type", resourceType,
				"error", err)
		} else {
			logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
		}
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
