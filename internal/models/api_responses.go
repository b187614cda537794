// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package models contains shared response types for the HTTP API.
package models

import (
	"time"
)

// APIResponse is the standardized envelope used by every HTTP endpoint.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only when Status is "error".
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "MODEL_NOT_TRAINED",
//	    "message": "Price model has not been trained yet"
//	  },
//	  "metadata": {"timestamp": "2026-09-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	// Timestamp is the server time when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the handler execution time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`

	// RequestID is the correlation ID assigned by the request-ID middleware.
	RequestID string `json:"request_id,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	// Code is a stable machine-readable error code, e.g. "INSUFFICIENT_DATA".
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Details carries optional structured context about the failure.
	Details map[string]interface{} `json:"details,omitempty"`
}
