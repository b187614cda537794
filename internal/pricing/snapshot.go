// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/listwise/listwise/internal/feature"
)

// SnapshotSchemaVersion identifies the on-disk snapshot format. Bump it
// when a field changes meaning so stale artifacts are rejected at load
// rather than misinterpreted.
const SnapshotSchemaVersion = 1

// ModelType is the descriptive model identifier reported by training and
// status responses.
const ModelType = "random-forest (log-transformed target)"

// Snapshot is an immutable bundle of a fitted model plus its scalers and
// metadata, produced by one training run. It is never mutated after
// creation; the store replaces the current snapshot atomically, so readers
// may hold a *Snapshot across a concurrent retrain without locking.
type Snapshot struct {
	SchemaVersion int `json:"schema_version"`

	Model   *Forest         `json:"model"`
	ScalerX *StandardScaler `json:"scaler_x"`
	ScalerY *StandardScaler `json:"scaler_y"`

	FeatureNames []string `json:"feature_names"`
	AreaMin      float64  `json:"area_min"`
	AreaMax      float64  `json:"area_max"`

	// Observed vocabularies, kept for reference and status reporting; the
	// category hash does not depend on them.
	Cities []string `json:"cities"`
	Types  []string `json:"types"`

	SampleCount int       `json:"sample_count"`
	TrainedAt   time.Time `json:"trained_at"`
}

// validate checks structural integrity after loading from disk.
func (s *Snapshot) validate() error {
	if s.SchemaVersion != SnapshotSchemaVersion {
		return fmt.Errorf("snapshot schema version %d, want %d", s.SchemaVersion, SnapshotSchemaVersion)
	}
	if s.Model == nil || s.ScalerX == nil || s.ScalerY == nil {
		return fmt.Errorf("snapshot missing model or scalers")
	}
	if len(s.FeatureNames) == 0 {
		return fmt.Errorf("snapshot has no feature names")
	}
	if s.Model.NumFeatures != len(s.FeatureNames) {
		return fmt.Errorf("snapshot model expects %d features, names list has %d",
			s.Model.NumFeatures, len(s.FeatureNames))
	}
	if s.ScalerX.Dim() != len(s.FeatureNames) {
		return fmt.Errorf("snapshot input scaler covers %d features, names list has %d",
			s.ScalerX.Dim(), len(s.FeatureNames))
	}
	if s.ScalerY.Dim() != 1 {
		return fmt.Errorf("snapshot target scaler covers %d columns, want 1", s.ScalerY.Dim())
	}
	return nil
}

// PredictVector runs the full inference chain for an encoded feature
// vector: standardize, regress, invert the target scaler, invert the log
// transform, clamp to zero. Returns ErrFeatureShape when the vector length
// does not match the trained feature list.
func (s *Snapshot) PredictVector(vec []float64) (float64, error) {
	if len(vec) != len(s.FeatureNames) {
		return 0, fmt.Errorf("%w: got %d features, model expects %d",
			ErrFeatureShape, len(vec), len(s.FeatureNames))
	}

	scaled, err := s.ScalerX.Transform(vec)
	if err != nil {
		return 0, fmt.Errorf("scale features: %w", err)
	}

	logScaled, err := s.Model.Predict(scaled)
	if err != nil {
		return 0, fmt.Errorf("regress: %w", err)
	}

	logPrice, err := s.ScalerY.InverseValue(logScaled)
	if err != nil {
		return 0, fmt.Errorf("invert target scale: %w", err)
	}

	// Invert ln(1+price); prices cannot be negative.
	price := math.Expm1(logPrice)
	if price < 0 {
		price = 0
	}
	return price, nil
}

// PredictRecord encodes a raw record with the snapshot's stored area bounds
// and predicts its price.
func (s *Snapshot) PredictRecord(rec *feature.Record) (float64, error) {
	return s.PredictVector(feature.Vector(rec, s.AreaMin, s.AreaMax))
}
