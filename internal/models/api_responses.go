// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package models

import "time"

// APIResponse is the envelope for every JSON response.
//
// Successful reads:
//
//	{"success": true, "data": [...], "cached": false}
//	{"success": true, "data": [...], "pagination": {"page": 1, "limit": 10, "total": 95, "totalPages": 10}}
//
// Failures carry a short static message and nothing else:
//
//	{"success": false, "error": "Failed to fetch regions"}
//
// Cached is a pointer so it is emitted only by the distinct-value
// endpoints, where false is meaningful.
type APIResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Cached     *bool       `json:"cached,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Component health values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Uptime    float64       `json:"uptime_seconds"`
	Database  ComponentInfo `json:"database"`
	Cache     ComponentInfo `json:"cache"`
}

// ComponentInfo reports one dependency.
type ComponentInfo struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
	Error   string `json:"error,omitempty"`
}
