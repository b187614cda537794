// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package pricing

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/listwise/listwise/internal/feature"
	"github.com/listwise/listwise/internal/logging"
	"github.com/listwise/listwise/internal/metrics"
)

func newTestPredictor(t *testing.T, trained bool) *Predictor {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "model.json"), logging.NewTestLogger(io.Discard))
	if trained {
		store.Replace(trainedSnapshot(t))
	}
	return NewPredictor(DefaultPredictorConfig(), store)
}

func TestPredictorUntrained(t *testing.T) {
	p := newTestPredictor(t, false)

	if p.Ready() {
		t.Error("Ready() = true for untrained store")
	}
	if _, err := p.PredictRecord(&feature.Record{}); !errors.Is(err, ErrModelNotTrained) {
		t.Errorf("PredictRecord() error = %v, want ErrModelNotTrained", err)
	}
	if _, err := p.PredictVector(make([]float64, feature.VectorLen)); !errors.Is(err, ErrModelNotTrained) {
		t.Errorf("PredictVector() error = %v, want ErrModelNotTrained", err)
	}
}

func TestPredictorFeatureShape(t *testing.T) {
	p := newTestPredictor(t, true)

	before := testutil.ToFloat64(metrics.PredictionsTotal.WithLabelValues("bad_shape"))
	if _, err := p.PredictVector([]float64{1, 2, 3}); !errors.Is(err, ErrFeatureShape) {
		t.Errorf("PredictVector(short) error = %v, want ErrFeatureShape", err)
	}
	after := testutil.ToFloat64(metrics.PredictionsTotal.WithLabelValues("bad_shape"))
	if after != before+1 {
		t.Errorf("bad_shape predictions = %v, want %v", after, before+1)
	}
}

func TestPredictorBandAndConfidence(t *testing.T) {
	p := newTestPredictor(t, true)

	rec := feature.Record{AreaSqFt: f64(950), Bedrooms: f64(2), Bathrooms: f64(2), City: "Pune", Type: "rent", AgeYears: f64(4)}
	pred, err := p.PredictRecord(&rec)
	if err != nil {
		t.Fatalf("PredictRecord() error = %v", err)
	}

	if pred.PredictedPrice < 0 {
		t.Errorf("PredictedPrice = %v, want non-negative", pred.PredictedPrice)
	}
	wantMin := pred.PredictedPrice * 0.85
	wantMax := pred.PredictedPrice * 1.15
	if !almostEqual(pred.PriceRangeMin, wantMin, 1e-9) || !almostEqual(pred.PriceRangeMax, wantMax, 1e-9) {
		t.Errorf("band = [%v, %v], want [%v, %v]", pred.PriceRangeMin, pred.PriceRangeMax, wantMin, wantMax)
	}
	if pred.ConfidenceScore < 0.5 || pred.ConfidenceScore > 0.95 {
		t.Errorf("ConfidenceScore = %v, want within [0.5, 0.95]", pred.ConfidenceScore)
	}
}

func TestPredictorDefaultsApplied(t *testing.T) {
	p := newTestPredictor(t, true)

	// A fully-empty record is encoded with the documented defaults and
	// still yields a usable estimate.
	pred, err := p.PredictRecord(&feature.Record{})
	if err != nil {
		t.Fatalf("PredictRecord(empty) error = %v", err)
	}
	if pred.PredictedPrice < 0 {
		t.Errorf("PredictedPrice = %v, want non-negative", pred.PredictedPrice)
	}
}

func TestConfidenceClamp(t *testing.T) {
	tests := []struct {
		margin float64
		want   float64
	}{
		{0.15, 0.7515},
		{0.5, 0.755},
	}
	for _, tt := range tests {
		if got := confidence(tt.margin); !almostEqual(got, tt.want, 1e-12) {
			t.Errorf("confidence(%v) = %v, want %v", tt.margin, got, tt.want)
		}
	}
	if got := confidence(100); got != 0.95 {
		t.Errorf("confidence(100) = %v, want clamp to 0.95", got)
	}
}

func TestPredictorStatus(t *testing.T) {
	p := newTestPredictor(t, true)

	trained, samples, trainedAt, modelType := p.Status()
	if !trained {
		t.Fatal("Status() trained = false")
	}
	if samples != 6 {
		t.Errorf("Status() samples = %d, want 6", samples)
	}
	if trainedAt.IsZero() {
		t.Error("Status() trainedAt is zero")
	}
	if modelType != ModelType {
		t.Errorf("Status() modelType = %q, want %q", modelType, ModelType)
	}

	untrained := newTestPredictor(t, false)
	if trained, _, _, _ := untrained.Status(); trained {
		t.Error("Status() trained = true for untrained store")
	}
}
