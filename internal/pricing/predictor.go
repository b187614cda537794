// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package pricing

import (
	"errors"
	"time"

	"github.com/listwise/listwise/internal/feature"
	"github.com/listwise/listwise/internal/metrics"
)

// Prediction is a single price estimate with its uncertainty band.
type Prediction struct {
	PredictedPrice  float64 `json:"predicted_price"`
	PriceRangeMin   float64 `json:"price_range_min"`
	PriceRangeMax   float64 `json:"price_range_max"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// PredictorConfig tunes the uncertainty band around point estimates.
type PredictorConfig struct {
	// Margin is the symmetric band half-width as a fraction of the
	// predicted price.
	Margin float64
}

// DefaultPredictorConfig returns the reference predictor settings.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{Margin: 0.15}
}

// Predictor serves price estimates from whatever snapshot is currently
// live in the store. Reads are lock-free.
type Predictor struct {
	cfg   PredictorConfig
	store *Store
}

// NewPredictor creates a predictor over the store.
func NewPredictor(cfg PredictorConfig, store *Store) *Predictor {
	if cfg.Margin <= 0 || cfg.Margin >= 1 {
		cfg.Margin = DefaultPredictorConfig().Margin
	}
	return &Predictor{cfg: cfg, store: store}
}

// Ready reports whether a trained snapshot is available.
func (p *Predictor) Ready() bool {
	_, ok := p.store.Current()
	return ok
}

// Status describes the live snapshot, or reports untrained.
func (p *Predictor) Status() (trained bool, sampleCount int, trainedAt time.Time, modelType string) {
	snap, ok := p.store.Current()
	if !ok {
		return false, 0, time.Time{}, ""
	}
	return true, snap.SampleCount, snap.TrainedAt, ModelType
}

// PredictRecord estimates a price for one raw listing record.
func (p *Predictor) PredictRecord(rec *feature.Record) (*Prediction, error) {
	return p.predict(func(s *Snapshot) (float64, error) {
		return s.PredictRecord(rec)
	})
}

// PredictVector estimates a price for an already-encoded feature vector.
// The vector length must match the snapshot's feature set.
func (p *Predictor) PredictVector(vec []float64) (*Prediction, error) {
	return p.predict(func(s *Snapshot) (float64, error) {
		return s.PredictVector(vec)
	})
}

func (p *Predictor) predict(fn func(*Snapshot) (float64, error)) (*Prediction, error) {
	start := time.Now()

	snap, ok := p.store.Current()
	if !ok {
		metrics.RecordPrediction("not_trained", time.Since(start))
		return nil, ErrModelNotTrained
	}

	price, err := fn(snap)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrFeatureShape) {
			outcome = "bad_shape"
		}
		metrics.RecordPrediction(outcome, time.Since(start))
		return nil, err
	}

	pred := &Prediction{
		PredictedPrice:  price,
		PriceRangeMin:   price * (1 - p.cfg.Margin),
		PriceRangeMax:   price * (1 + p.cfg.Margin),
		ConfidenceScore: confidence(p.cfg.Margin),
	}

	metrics.RecordPrediction("success", time.Since(start))
	return pred, nil
}

// confidence derives a heuristic score from the band width. Narrower bands
// claim higher confidence, clamped to [0.5, 0.95].
func confidence(margin float64) float64 {
	c := 0.75 + margin/100
	if c > 0.95 {
		c = 0.95
	}
	if c < 0.5 {
		c = 0.5
	}
	return c
}
