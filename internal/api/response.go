// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salescope/internal/logging"
	"github.com/tomtom215/salescope/internal/models"
)

// Static error messages. Internal detail never reaches the caller.
const (
	msgFetchPlatforms  = "Failed to fetch platforms"
	msgFetchMonths     = "Failed to fetch months"
	msgFetchRegions    = "Failed to fetch regions"
	msgFetchAggregated = "Failed to fetch aggregated data"
	msgFetchDetailed   = "Failed to fetch detailed sales data"
	msgExport          = "Failed to export sales data"
	msgRouteNotFound   = "Route not found"
	msgMethodNotAllow  = "Method not allowed"
	msgRateLimited     = "Too many requests"
)

// ResponseWriter writes the standard response envelope.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a ResponseWriter for one request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, &models.APIResponse{Success: true, Data: data})
}

// SuccessCached writes a 200 response carrying the cached flag.
func (rw *ResponseWriter) SuccessCached(data interface{}, cached bool) {
	rw.writeJSON(http.StatusOK, &models.APIResponse{Success: true, Data: data, Cached: &cached})
}

// SuccessWithPagination writes a 200 response with a pagination block.
func (rw *ResponseWriter) SuccessWithPagination(data interface{}, p models.Pagination) {
	rw.writeJSON(http.StatusOK, &models.APIResponse{Success: true, Data: data, Pagination: &p})
}

// Error writes a failure envelope with the given status.
func (rw *ResponseWriter) Error(statusCode int, message string) {
	rw.writeJSON(statusCode, &models.APIResponse{Success: false, Error: message})
}

// InternalError writes a 500 failure envelope.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, message)
}

// NotFound writes a 404 failure envelope.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, message)
}

// writeJSON writes JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	writeRawJSON(rw.w, rw.r, statusCode, data)
}

// writeRawJSON writes data without the envelope.
func writeRawJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess is a convenience function for writing success responses.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	NewResponseWriter(w, r).Success(data)
}

// WriteError is a convenience function for writing error responses.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	NewResponseWriter(w, r).Error(statusCode, message)
}
