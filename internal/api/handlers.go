// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package api provides the HTTP surface: price-model training, prediction
// and status, listing recommendations, and health probes. Routing uses the
// Chi router; every response is wrapped in the models.APIResponse envelope.
package api

import (
	"time"

	"github.com/listwise/listwise/internal/config"
	"github.com/listwise/listwise/internal/pricing"
	"github.com/listwise/listwise/internal/recommend"
)

// Handler implements all HTTP endpoints.
type Handler struct {
	config    *config.Config
	pipeline  *pricing.Pipeline
	predictor *pricing.Predictor
	engine    *recommend.Engine
	startTime time.Time
}

// NewHandler creates a handler wired to the pricing and recommendation
// components.
func NewHandler(cfg *config.Config, pipeline *pricing.Pipeline, predictor *pricing.Predictor, engine *recommend.Engine) *Handler {
	return &Handler{
		config:    cfg,
		pipeline:  pipeline,
		predictor: predictor,
		engine:    engine,
		startTime: time.Now(),
	}
}
