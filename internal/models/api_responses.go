// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

// Package models defines the API wire types: the response envelope and
// the validated request bodies.
package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields. Cached responses
// report QueryTimeMS 0.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error payload.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - DATA_INTEGRITY_ERROR: corrupted feature data detected
//   - NOT_FOUND: resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NeighborEntry is one entry in a similarity listing.
type NeighborEntry struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// SimilarResponse lists the nearest neighbors of a game or user by the
// trained similarity metric.
type SimilarResponse struct {
	ID        string          `json:"id"`
	Neighbors []NeighborEntry `json:"neighbors"`
}

// HealthResponse reports service health for load balancers and probes.
type HealthResponse struct {
	Status       string    `json:"status"`
	Version      string    `json:"version"`
	DatabaseOK   bool      `json:"database_ok"`
	ModelVersion int       `json:"model_version"`
	TrainedAt    time.Time `json:"trained_at,omitempty"`
	Uptime       string    `json:"uptime"`
}
