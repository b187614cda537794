// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package metrics provides Prometheus instrumentation for Listwise.
//
// Covered surfaces:
//   - API endpoint latency and throughput
//   - Price model training runs and duration
//   - Prediction volume and latency
//   - Recommendation request volume
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listwise_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listwise_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Training metrics
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listwise_training_runs_total",
			Help: "Total number of price model training runs",
		},
		[]string{"outcome"}, // "success", "insufficient_data", "invalid_data", "error"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listwise_training_duration_seconds",
			Help:    "Price model training duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	TrainingSampleCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listwise_training_sample_count",
			Help: "Number of listings used in the most recent training run",
		},
	)

	ModelTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "listwise_model_trained",
			Help: "Whether a trained price model is currently loaded (1) or not (0)",
		},
	)

	// Prediction metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listwise_predictions_total",
			Help: "Total number of price predictions",
		},
		[]string{"outcome"}, // "success", "not_trained", "bad_shape", "error"
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listwise_prediction_duration_seconds",
			Help:    "Price prediction duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Recommendation metrics
	RecommendationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listwise_recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"mode"}, // "similarity", "cold_start"
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "listwise_recommendation_candidates",
			Help:    "Number of candidate listings per recommendation request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTrainingRun records the outcome of a training run.
func RecordTrainingRun(outcome string, duration time.Duration) {
	TrainingRunsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		TrainingDuration.Observe(duration.Seconds())
	}
}

// RecordPrediction records the outcome of a prediction.
func RecordPrediction(outcome string, duration time.Duration) {
	PredictionsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		PredictionDuration.Observe(duration.Seconds())
	}
}

// RecordRecommendation records a recommendation request.
func RecordRecommendation(mode string, candidateCount int) {
	RecommendationRequestsTotal.WithLabelValues(mode).Inc()
	RecommendationCandidates.Observe(float64(candidateCount))
}
