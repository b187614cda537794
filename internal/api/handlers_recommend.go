// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/listwise/listwise/internal/recommend"
)

// RecommendRequest is the POST /api/v1/recommendations payload.
type RecommendRequest struct {
	// Candidate presence is checked by the engine so an empty list maps to
	// the EMPTY_CANDIDATES code rather than a generic validation error.
	Candidates []recommend.Candidate `json:"candidates"`
	UserVector []float64             `json:"user_vector"`
	TopN       int                   `json:"top_n"`
}

// RecommendResponse carries the ranked results.
type RecommendResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}
	results, err := h.engine.Recommend(req.UserVector, req.Candidates, req.TopN)
	if err != nil {
		if errors.Is(err, recommend.ErrEmptyCandidates) {
			respondError(w, http.StatusBadRequest, "EMPTY_CANDIDATES", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_FAILED", "Recommendation failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, RecommendResponse{Recommendations: results}, start)
}
