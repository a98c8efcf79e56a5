// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package api

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/salescope/internal/cache"
	"github.com/tomtom215/salescope/internal/config"
	"github.com/tomtom215/salescope/internal/database"
	"github.com/tomtom215/salescope/internal/database/query"
	"github.com/tomtom215/salescope/internal/models"
)

func newTestRouter(store *fakeStore, mw *ChiMiddlewareConfig) http.Handler {
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	return NewRouter(newTestHandler(store, cache.NewMemoryStore(16)), mw).SetupChi()
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		distinct: map[query.Dimension][]string{query.DimPlatform: {"Blinkit"}},
		detail:   detailFixture(),
		total:    25,
	}
	router := newTestRouter(store, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/api/sales/platforms", http.StatusOK},
		{"/api/sales/months", http.StatusOK},
		{"/api/sales/regions", http.StatusOK},
		{"/api/sales/aggregated", http.StatusOK},
		{"/api/sales/detailed?page=2", http.StatusOK},
		{"/api/sales/export", http.StatusOK},
		{"/api/sales/export?format=csv", http.StatusOK},
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/sales/unknown", http.StatusNotFound},
		{"/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, router, tt.path)
			if rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d (%s)", tt.path, rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestRouter_NotFoundEnvelope(t *testing.T) {
	t.Parallel()

	rec := serve(t, newTestRouter(&fakeStore{}, nil), "/api/sales/nothing-here")
	env := decode[any](t, rec)
	if env.Success || env.Error != msgRouteNotFound {
		t.Errorf("404 envelope = %+v, want success=false error=%q", env, msgRouteNotFound)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sales/platforms", nil)
	newTestRouter(&fakeStore{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if env := decode[any](t, rec); env.Error != msgMethodNotAllow {
		t.Errorf("error = %q", env.Error)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeStore{}, nil)

	rec := serve(t, router, "/health")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "upstream-42" {
		t.Errorf("X-Request-ID = %q, want the incoming value", got)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	t.Parallel()

	rec := serve(t, newTestRouter(&fakeStore{}, nil), "/api/sales/aggregated")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = []string{"https://dash.example.com"}
	mw.RateLimitDisabled = true
	router := newTestRouter(&fakeStore{}, mw)

	tests := []struct {
		origin string
		want   string
	}{
		{"https://dash.example.com", "https://dash.example.com"},
		{"https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodOptions, "/api/sales/platforms", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			router.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	mw.RateLimitWindow = time.Minute
	router := newTestRouter(&fakeStore{}, mw)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := serve(t, router, "/api/sales/aggregated")
		codes = append(codes, rec.Code)
		if i == 2 {
			if env := decode[any](t, rec); env.Error != msgRateLimited {
				t.Errorf("429 body error = %q", env.Error)
			}
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}

	// Health sits outside the limited group.
	if rec := serve(t, router, "/health"); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d after the API limit was hit", rec.Code)
	}
}

func TestRouter_ExportCompressed(t *testing.T) {
	t.Parallel()

	store := &fakeStore{detail: detailFixture()}
	router := newTestRouter(store, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sales/export?format=csv", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}
}

// TestRouter_DuckDBEndToEnd drives the full stack against the seeded
// embedded store.
func TestRouter_DuckDBEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded store test in short mode")
	}

	ctx := context.Background()
	defaults := query.Defaults{Platform: "Blinkit", SaleMonth: "2025-01"}
	builder, err := query.NewBuilder("sales_data", defaults)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	db, err := database.New(ctx, &config.DatabaseConfig{
		Driver:         config.DriverDuckDB,
		Path:           ":memory:",
		MaxOpenConns:   2,
		MaxIdleConns:   1,
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   10 * time.Second,
		SeedMockData:   true,
	}, builder)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Cache: config.CacheConfig{DistinctTTL: time.Hour},
		Query: config.QueryConfig{MaxPageSize: 1000},
	}
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	router := NewRouter(NewHandler(db, cache.NewReader(cache.NewMemoryStore(16), time.Second), cfg), mw).SetupChi()

	platforms := decode[[]string](t, serve(t, router, "/api/sales/platforms"))
	if len(platforms.Data) == 0 || *platforms.Cached {
		t.Fatalf("platforms = %+v", platforms)
	}
	if again := decode[[]string](t, serve(t, router, "/api/sales/platforms")); !*again.Cached {
		t.Error("second platforms call was not served from cache")
	}

	detail := decode[[]models.DetailRow](t, serve(t, router, "/api/sales/detailed?limit=5"))
	if !detail.Success || detail.Pagination == nil {
		t.Fatalf("detail = %+v", detail)
	}
	for _, row := range detail.Data {
		if row.Platform != defaults.Platform || row.SaleMonth != defaults.SaleMonth {
			t.Errorf("row outside defaults: %+v", row)
		}
	}
	for i := 1; i < len(detail.Data); i++ {
		if detail.Data[i].TotalGMV.GreaterThan(detail.Data[i-1].TotalGMV) {
			t.Errorf("rows not ordered by total_gmv desc at %d", i)
		}
	}

	huge := serve(t, router, "/api/sales/detailed?limit=10&page="+strconv.Itoa(math.MaxInt))
	if huge.Code != http.StatusOK {
		t.Fatalf("huge page status = %d, want 200 (%s)", huge.Code, huge.Body.String())
	}
	if past := decode[[]models.DetailRow](t, huge); len(past.Data) != 0 || past.Data == nil {
		t.Errorf("huge page data = %v, want an empty array", past.Data)
	}

	export := decode[[]models.DetailRow](t, serve(t, router, "/api/sales/export"))
	if int64(len(export.Data)) != detail.Pagination.Total {
		t.Errorf("export rows = %d, detail total = %d", len(export.Data), detail.Pagination.Total)
	}

	csv := serve(t, router, "/api/sales/export?format=csv")
	if lines := strings.Count(csv.Body.String(), "\n"); int64(lines) != detail.Pagination.Total+1 {
		t.Errorf("csv lines = %d, want %d", lines, detail.Pagination.Total+1)
	}

	agg := decode[[]models.AggregateRow](t, serve(t, router, "/api/sales/aggregated"))
	if len(agg.Data) != 1 || agg.Data[0].RecordCount == 0 {
		t.Errorf("unfiltered aggregate = %+v, want one summary row", agg.Data)
	}
}
