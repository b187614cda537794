// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/listwise/listwise/internal/feature"
	"github.com/listwise/listwise/internal/pricing"
)

// TrainRequest is the POST /api/v1/price/train payload. Listing presence
// is checked by the training pipeline so a missing or empty batch maps to
// the INSUFFICIENT_DATA code rather than a generic validation error.
type TrainRequest struct {
	Listings []feature.Record `json:"listings"`
}

// TrainResponse reports the outcome of a training run.
type TrainResponse struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	SamplesTrained int      `json:"samples_trained"`
	R2Score        float64  `json:"r2_score"`
	Features       []string `json:"features"`
	ModelType      string   `json:"model_type"`
}

// PredictRequest is the POST /api/v1/price/predict payload. Features may
// be a raw listing record or a pre-encoded feature object; the two are
// distinguished by the presence of the "normalized_area_sqft" key.
type PredictRequest struct {
	Features json.RawMessage `json:"features" validate:"required"`
}

// PredictResponse carries the point estimate, band and confidence.
type PredictResponse struct {
	PredictedPrice float64    `json:"predicted_price"`
	PriceRange     PriceRange `json:"price_range"`
	Confidence     float64    `json:"confidence_score"`
}

// PriceRange is the heuristic uncertainty band around a point estimate.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// StatusResponse is the GET /api/v1/price/status payload.
type StatusResponse struct {
	IsTrained     bool     `json:"is_trained"`
	ModelType     string   `json:"model_type"`
	FeaturesCount int      `json:"features_count"`
	FeatureNames  []string `json:"feature_names"`
	TrainingCount int      `json:"training_count"`
	LastTrained   *string  `json:"last_trained"`
}

// encodedFeatures is the pre-encoded prediction input shape. Missing
// fields take the same defaults the original encoding applies.
type encodedFeatures struct {
	NormalizedAreaSqFt *float64 `json:"normalized_area_sqft"`
	Bedrooms           *float64 `json:"bedrooms"`
	Bathrooms          *float64 `json:"bathrooms"`
	NormalizedCityCode *float64 `json:"normalized_city_code"`
	NormalizedTypeCode *float64 `json:"normalized_type_code"`
	PropertyAgeYears   *float64 `json:"property_age_years"`
}

func (f *encodedFeatures) vector() []float64 {
	val := func(p *float64, def float64) float64 {
		if p == nil {
			return def
		}
		return *p
	}
	return []float64{
		val(f.NormalizedAreaSqFt, 0),
		val(f.Bedrooms, 1),
		val(f.Bathrooms, 1),
		val(f.NormalizedCityCode, 0),
		val(f.NormalizedTypeCode, 0),
		val(f.PropertyAgeYears, 0),
	}
}

// PriceTrain handles POST /api/v1/price/train.
func (h *Handler) PriceTrain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req TrainRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}

	result, err := h.pipeline.Train(r.Context(), req.Listings)
	if err != nil {
		h.respondTrainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, TrainResponse{
		Status:         "success",
		Message:        "Model trained successfully",
		SamplesTrained: result.SamplesTrained,
		R2Score:        result.R2Score,
		Features:       result.FeatureNames,
		ModelType:      result.ModelType,
	}, start)
}

func (h *Handler) respondTrainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrInsufficientData):
		respondError(w, http.StatusBadRequest, "INSUFFICIENT_DATA", err.Error(), nil)
	case errors.Is(err, pricing.ErrInvalidData):
		respondError(w, http.StatusUnprocessableEntity, "INVALID_DATA", err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "TRAINING_FAILED", "Training failed", err)
	}
}

// PricePredict handles POST /api/v1/price/predict.
func (h *Handler) PricePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PredictRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	pred, err := h.runPrediction(req.Features)
	if err != nil {
		h.respondPredictError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, PredictResponse{
		PredictedPrice: pred.PredictedPrice,
		PriceRange:     PriceRange{Min: pred.PriceRangeMin, Max: pred.PriceRangeMax},
		Confidence:     pred.ConfidenceScore,
	}, start)
}

// runPrediction dispatches between the pre-encoded and raw input shapes.
func (h *Handler) runPrediction(raw json.RawMessage) (*pricing.Prediction, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, errBadFeatures{err}
	}

	if _, ok := probe["normalized_area_sqft"]; ok {
		var enc encodedFeatures
		if err := json.Unmarshal(raw, &enc); err != nil {
			return nil, errBadFeatures{err}
		}
		return h.predictor.PredictVector(enc.vector())
	}

	var rec feature.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errBadFeatures{err}
	}
	return h.predictor.PredictRecord(&rec)
}

// errBadFeatures marks a malformed features object.
type errBadFeatures struct{ err error }

func (e errBadFeatures) Error() string { return "invalid features object: " + e.err.Error() }
func (e errBadFeatures) Unwrap() error { return e.err }

func (h *Handler) respondPredictError(w http.ResponseWriter, err error) {
	var bad errBadFeatures
	switch {
	case errors.As(err, &bad):
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, pricing.ErrModelNotTrained):
		respondError(w, http.StatusBadRequest, "MODEL_NOT_TRAINED",
			"Model not yet trained. Call /api/v1/price/train first.", nil)
	case errors.Is(err, pricing.ErrFeatureShape):
		respondError(w, http.StatusBadRequest, "FEATURE_SHAPE", err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "PREDICTION_FAILED", "Prediction failed", err)
	}
}

// PriceStatus handles GET /api/v1/price/status.
func (h *Handler) PriceStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	trained, samples, trainedAt, modelType := h.predictor.Status()

	resp := StatusResponse{
		IsTrained:     trained,
		ModelType:     modelType,
		FeaturesCount: feature.VectorLen,
		FeatureNames:  feature.FeatureNames,
		TrainingCount: samples,
	}
	if trained {
		ts := trainedAt.Format(time.RFC3339)
		resp.LastTrained = &ts
	} else {
		// An untrained model still reports its type and feature contract.
		resp.ModelType = pricing.ModelType
	}

	respondSuccess(w, http.StatusOK, resp, start)
}
