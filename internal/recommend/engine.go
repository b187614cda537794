// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package recommend implements content-based listing recommendations:
// candidates are ranked by cosine similarity between the user's taste
// vector and each listing's feature vector, with a recency fallback for
// cold-start users.
package recommend

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/listwise/listwise/internal/metrics"
)

// ErrEmptyCandidates indicates a recommendation request with no candidate
// listings to rank.
var ErrEmptyCandidates = errors.New("no candidate listings to rank")

// Candidate is one listing eligible for recommendation. Vector is the
// listing's encoded feature vector; CreatedAt drives the cold-start
// fallback and may be absent.
type Candidate struct {
	ID        string     `json:"id"`
	Vector    []float64  `json:"vector"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Recommendation is one ranked result. Score is nil for cold-start
// results, where ordering is by recency rather than similarity.
type Recommendation struct {
	ID    string   `json:"id"`
	Score *float64 `json:"score,omitempty"`
}

// Config tunes result list sizing.
type Config struct {
	// DefaultTopN is used when the caller does not request a count.
	DefaultTopN int

	// MaxTopN caps the requested count when positive. Zero disables the
	// cap and the count is limited only by the candidate pool.
	MaxTopN int
}

// DefaultConfig returns the reference engine settings.
func DefaultConfig() Config {
	return Config{DefaultTopN: 5}
}

// Engine ranks candidate listings for a user. Stateless and safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates a recommendation engine.
func NewEngine(cfg Config) *Engine {
	if cfg.DefaultTopN < 1 {
		cfg.DefaultTopN = DefaultConfig().DefaultTopN
	}
	if cfg.MaxTopN < 0 {
		cfg.MaxTopN = 0
	}
	return &Engine{cfg: cfg}
}

// Recommend ranks candidates for the given user vector and returns the top
// N results. A nil user vector means no taste profile was supplied and
// triggers the cold-start path, which ranks by listing recency instead. A
// supplied vector is always scored, even when it is empty or all zeros; a
// zero-magnitude vector scores every candidate 0 and the stable sort keeps
// input order. topN <= 0 selects the default; values above the configured
// maximum are clamped.
func (e *Engine) Recommend(userVector []float64, candidates []Candidate, topN int) ([]Recommendation, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}

	n := e.clampTopN(topN, len(candidates))

	if userVector == nil {
		metrics.RecordRecommendation("cold_start", len(candidates))
		return rankByRecency(candidates, n), nil
	}

	metrics.RecordRecommendation("similarity", len(candidates))
	return rankBySimilarity(userVector, candidates, n), nil
}

func (e *Engine) clampTopN(topN, available int) int {
	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}
	if e.cfg.MaxTopN > 0 && topN > e.cfg.MaxTopN {
		topN = e.cfg.MaxTopN
	}
	if topN > available {
		topN = available
	}
	return topN
}

// rankBySimilarity scores every candidate against the user vector and
// returns the n best. The sort is stable so equal scores keep input order.
func rankBySimilarity(userVector []float64, candidates []Candidate, n int) []Recommendation {
	scored := make([]Recommendation, len(candidates))
	for i := range candidates {
		s := cosineSimilarity(reconcile(userVector, len(candidates[i].Vector)), candidates[i].Vector)
		scored[i] = Recommendation{ID: candidates[i].ID, Score: &s}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return *scored[a].Score > *scored[b].Score
	})
	return scored[:n]
}

// rankByRecency orders candidates newest first. Candidates without a
// creation time rank after all dated ones, keeping input order among
// themselves.
func rankByRecency(candidates []Candidate, n int) []Recommendation {
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := candidates[order[a]].CreatedAt, candidates[order[b]].CreatedAt
		switch {
		case ca == nil:
			return false
		case cb == nil:
			return true
		default:
			return ca.After(*cb)
		}
	})

	out := make([]Recommendation, n)
	for i := 0; i < n; i++ {
		out[i] = Recommendation{ID: candidates[order[i]].ID}
	}
	return out
}

// reconcile pads the user vector with zeros or truncates it so its length
// matches one candidate's vector. Candidates may carry vectors of
// different lengths; each comparison reconciles independently.
func reconcile(userVector []float64, length int) []float64 {
	if len(userVector) == length {
		return userVector
	}
	out := make([]float64, length)
	copy(out, userVector)
	return out
}

// cosineSimilarity computes the cosine of the angle between two equal
// length vectors. Either vector having zero magnitude yields 0.
func cosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
