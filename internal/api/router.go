// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/listwise/listwise/internal/config"
)

// Router assembles the HTTP routing tree.
type Router struct {
	handler *Handler
	config  *config.Config
}

// NewRouter creates a router around the handler set.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{handler: handler, config: cfg}
}

// Setup builds the Chi routing tree with the full middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogging())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.config.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health endpoints stay outside the API rate limit so probes are
	// never throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(PrometheusMetrics())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		if !router.config.Security.RateLimitDisabled {
			r.Use(httprate.LimitByIP(
				router.config.Security.RateLimitRequests,
				router.config.Security.RateLimitWindow,
			))
		}
		r.Use(PrometheusMetrics())

		r.Route("/price", func(r chi.Router) {
			r.Post("/train", router.handler.PriceTrain)
			r.Post("/predict", router.handler.PricePredict)
			r.Get("/status", router.handler.PriceStatus)
		})

		r.Post("/recommendations", router.handler.Recommendations)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
