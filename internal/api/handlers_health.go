// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package api

import (
	"net/http"
	"time"

	"github.com/listwise/listwise/internal/models"
)

// HealthStatus is the GET /api/v1/health payload.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	ModelTrained  bool    `json:"model_trained"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Version is the service version reported by health endpoints.
const Version = "1.0.0"

// Health handles GET /api/v1/health. The service is healthy whenever the
// process runs; an untrained model is reported but is not a degradation,
// since training arrives through the API.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: HealthStatus{
			Status:        "healthy",
			Version:       Version,
			ModelTrained:  h.predictor.Ready(),
			UptimeSeconds: time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive handles GET /api/v1/health/live. Returns 200 whenever the
// process is alive, regardless of model state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles GET /api/v1/health/ready. The service accepts
// traffic from startup; prediction readiness is reported per-component.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"ready":           true,
			"predictor_ready": h.predictor.Ready(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
