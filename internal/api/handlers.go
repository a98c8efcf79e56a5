// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/salescope/internal/cache"
	"github.com/tomtom215/salescope/internal/config"
	"github.com/tomtom215/salescope/internal/database"
	"github.com/tomtom215/salescope/internal/database/query"
	"github.com/tomtom215/salescope/internal/logging"
	"github.com/tomtom215/salescope/internal/models"
)

// SalesStore is the read side of the fact-table store used by the handlers.
// *database.DB satisfies it.
type SalesStore interface {
	DistinctValues(ctx context.Context, d query.Dimension) ([]string, error)
	Aggregate(ctx context.Context, f query.FilterSet) ([]models.AggregateRow, error)
	Detail(ctx context.Context, f query.FilterSet, page query.Page) (*models.DetailPage, error)
	Export(ctx context.Context, f query.FilterSet) ([]models.DetailRow, error)
	StreamExport(ctx context.Context, f query.FilterSet, fn func(*models.DetailRow) error) error
	Ping(ctx context.Context) error
}

var _ SalesStore = (*database.DB)(nil)

// healthCheckTimeout bounds each dependency ping in /health.
const healthCheckTimeout = 2 * time.Second

// Handler serves the sales endpoints.
type Handler struct {
	store       SalesStore
	aside       *cache.Reader
	distinctTTL time.Duration
	maxPageSize int
	startTime   time.Time
}

// NewHandler creates a Handler. A nil aside reader disables caching.
func NewHandler(store SalesStore, aside *cache.Reader, cfg *config.Config) *Handler {
	if aside == nil {
		aside = cache.NewReader(nil, 0)
	}
	return &Handler{
		store:       store,
		aside:       aside,
		distinctTTL: cfg.Cache.DistinctTTL,
		maxPageSize: cfg.Query.MaxPageSize,
		startTime:   time.Now(),
	}
}

// Platforms lists distinct platforms.
func (h *Handler) Platforms(w http.ResponseWriter, r *http.Request) {
	h.distinct(w, r, query.DimPlatform, msgFetchPlatforms)
}

// Months lists distinct sale months.
func (h *Handler) Months(w http.ResponseWriter, r *http.Request) {
	h.distinct(w, r, query.DimSaleMonth, msgFetchMonths)
}

// Regions lists distinct regions.
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	h.distinct(w, r, query.DimRegion, msgFetchRegions)
}

func (h *Handler) distinct(w http.ResponseWriter, r *http.Request, d query.Dimension, failMsg string) {
	values, cached, err := cache.GetOrCompute(r.Context(), h.aside, d.CacheKey(), h.distinctTTL,
		func(ctx context.Context) ([]string, error) {
			return h.store.DistinctValues(ctx, d)
		})
	if err != nil {
		h.storeFailure(w, r, "distinct_"+d.Column(), err, failMsg)
		return
	}
	if values == nil {
		values = []string{}
	}
	NewResponseWriter(w, r).SuccessCached(values, cached)
}

// Aggregated returns totals grouped by the supplied filters.
func (h *Handler) Aggregated(w http.ResponseWriter, r *http.Request) {
	filters := query.ParseFilterSet(r.URL.Query())

	rows, err := h.store.Aggregate(r.Context(), filters)
	if err != nil {
		h.storeFailure(w, r, "aggregate", err, msgFetchAggregated)
		return
	}
	if rows == nil {
		rows = []models.AggregateRow{}
	}
	NewResponseWriter(w, r).Success(rows)
}

// Detailed returns one page of per-SKU rows and the pagination block.
func (h *Handler) Detailed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := query.ParseFilterSet(q)
	page := query.ParsePage(q.Get("page"), q.Get("limit"), h.maxPageSize)

	result, err := h.store.Detail(r.Context(), filters, page)
	if err != nil {
		h.storeFailure(w, r, "detail", err, msgFetchDetailed)
		return
	}
	rows := result.Rows
	if rows == nil {
		rows = []models.DetailRow{}
	}
	NewResponseWriter(w, r).SuccessWithPagination(rows, result.Pagination)
}

// Export returns every matching detail row. format=csv streams text/csv.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := query.ParseFilterSet(q)

	if q.Get("format") == "csv" {
		h.exportCSV(w, r, filters)
		return
	}

	rows, err := h.store.Export(r.Context(), filters)
	if err != nil {
		h.storeFailure(w, r, "export", err, msgExport)
		return
	}
	if rows == nil {
		rows = []models.DetailRow{}
	}
	NewResponseWriter(w, r).Success(rows)
}

// Health reports store and cache connectivity. It answers 500 when the
// store is unreachable; a cache outage only degrades the status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:    models.StatusHealthy,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Seconds(),
		Database:  models.ComponentInfo{Status: models.StatusHealthy},
		Cache:     models.ComponentInfo{Status: models.StatusHealthy, Backend: h.aside.Backend()},
	}

	dbCtx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	dbErr := h.store.Ping(dbCtx)
	cancel()
	if dbErr != nil {
		logging.Ctx(r.Context()).Warn().Err(dbErr).Msg("Health check: store ping failed")
		status.Database = models.ComponentInfo{Status: models.StatusUnhealthy, Error: "unreachable"}
		status.Status = models.StatusUnhealthy
	}

	if h.aside.Backend() == config.CacheNone {
		status.Cache.Status = models.StatusDisabled
	} else if err := h.aside.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("backend", h.aside.Backend()).Msg("Health check: cache ping failed")
		status.Cache.Status = models.StatusUnhealthy
		status.Cache.Error = "unreachable"
		if status.Status == models.StatusHealthy {
			status.Status = models.StatusDegraded
		}
	}

	code := http.StatusOK
	if dbErr != nil {
		code = http.StatusInternalServerError
	}
	writeRawJSON(w, r, code, &status)
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).NotFound(msgRouteNotFound)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusMethodNotAllowed, msgMethodNotAllow)
}

// storeFailure logs a store error with its kind and writes a generic 500.
func (h *Handler) storeFailure(w http.ResponseWriter, r *http.Request, op string, err error, message string) {
	kind := "unknown"
	var qe *database.QueryError
	if errors.As(err, &qe) {
		kind = qe.Kind()
	}
	// Driver messages can embed the full statement.
	logging.Ctx(r.Context()).Error().
		Str("error", logging.SanitizeError(err.Error())).
		Str("op", op).
		Str("kind", kind).
		Str("path", r.URL.Path).
		Msg(message)
	NewResponseWriter(w, r).InternalError(message)
}
