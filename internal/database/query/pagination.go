// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package query

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPage is used when page is absent, non-numeric or below 1.
	DefaultPage = 1

	// DefaultLimit is used when limit is absent, non-numeric or below 1.
	DefaultLimit = 10

	// MaxOffset caps the row offset. DuckDB rejects OFFSET values of 2^62
	// and above.
	MaxOffset = math.MaxInt >> 1
)

// Page is a validated page request.
type Page struct {
	Number int
	Limit  int
}

// ParsePage reads page and limit query values. Bad input never fails: it
// falls back to DefaultPage and DefaultLimit. A positive maxLimit clamps
// the limit.
func ParsePage(pageStr, limitStr string, maxLimit int) Page {
	p := Page{
		Number: parsePositive(pageStr, DefaultPage),
		Limit:  parsePositive(limitStr, DefaultLimit),
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func parsePositive(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Offset returns the number of rows to skip for p.
func (p Page) Offset() int {
	return Paginate(p.Number, p.Limit)
}

// Paginate converts a 1-based page number into a row offset. Pages below 1
// are treated as page 1 and the result saturates at MaxOffset, so the
// offset is never negative.
func Paginate(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > MaxOffset/limit {
		return MaxOffset / limit * limit
	}
	return (page - 1) * limit
}

// TotalPages returns ceil(total/limit), or 0 when limit is not positive.
func TotalPages(total int64, limit int) int64 {
	if limit < 1 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
