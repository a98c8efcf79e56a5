// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salescope/internal/models"
)

func TestResponseWriter_Envelopes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		write    func(rw *ResponseWriter)
		wantCode int
		wantBody string
	}{
		{
			name:     "success",
			write:    func(rw *ResponseWriter) { rw.Success([]string{"a"}) },
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"data":["a"]}`,
		},
		{
			name:     "cached false is emitted",
			write:    func(rw *ResponseWriter) { rw.SuccessCached([]string{"a"}, false) },
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"data":["a"],"cached":false}`,
		},
		{
			name:     "cached true",
			write:    func(rw *ResponseWriter) { rw.SuccessCached([]string{}, true) },
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"data":[],"cached":true}`,
		},
		{
			name: "pagination",
			write: func(rw *ResponseWriter) {
				rw.SuccessWithPagination([]int{1}, models.Pagination{Page: 3, Limit: 20, Total: 95, TotalPages: 5})
			},
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"data":[1],"pagination":{"page":3,"limit":20,"total":95,"totalPages":5}}`,
		},
		{
			name:     "internal error",
			write:    func(rw *ResponseWriter) { rw.InternalError(msgFetchRegions) },
			wantCode: http.StatusInternalServerError,
			wantBody: `{"success":false,"error":"Failed to fetch regions"}`,
		},
		{
			name:     "not found",
			write:    func(rw *ResponseWriter) { rw.NotFound(msgRouteNotFound) },
			wantCode: http.StatusNotFound,
			wantBody: `{"success":false,"error":"Route not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.write(NewResponseWriter(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			if !jsonEqual(t, rec.Body.Bytes(), []byte(tt.wantBody)) {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func jsonEqual(t *testing.T, a, b []byte) bool {
	t.Helper()
	var va, vb interface{}
	if err := json.Unmarshal(a, &va); err != nil {
		t.Fatalf("invalid JSON %q: %v", a, err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		t.Fatalf("invalid JSON %q: %v", b, err)
	}
	ja, _ := json.Marshal(va) //nolint:errcheck // re-encoding decoded JSON
	jb, _ := json.Marshal(vb) //nolint:errcheck // re-encoding decoded JSON
	return string(ja) == string(jb)
}
