// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package pricing implements the price-estimation core: the training
// pipeline, the model snapshot and its store, and the predictor.
//
// Training constructs a new immutable snapshot entirely off to the side and
// swaps it into the store with a single atomic pointer store, so concurrent
// predictions are never blocked by training and always see exactly one
// consistent snapshot.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/listwise/listwise/internal/feature"
	"github.com/listwise/listwise/internal/metrics"
)

// TrainConfig contains training pipeline settings.
type TrainConfig struct {
	// MinSamples is the minimum number of usable records required after
	// the price filter.
	MinSamples int

	// Forest holds the regressor hyperparameters.
	Forest ForestConfig
}

// DefaultTrainConfig returns the reference training configuration.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		MinSamples: 5,
		Forest:     DefaultForestConfig(),
	}
}

// TrainResult summarizes a successful training run.
type TrainResult struct {
	SamplesTrained int
	R2Score        float64
	FeatureNames   []string
	ModelType      string
}

// Pipeline runs training and hands completed snapshots to the store.
// Concurrent training calls are serialized against each other but never
// against readers.
type Pipeline struct {
	cfg    TrainConfig
	store  *Store
	logger zerolog.Logger

	// mu serializes training runs.
	mu sync.Mutex
}

// NewPipeline creates a training pipeline bound to a store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipeline(cfg TrainConfig, store *Store, logger zerolog.Logger) *Pipeline {
	if cfg.MinSamples < 2 {
		cfg.MinSamples = DefaultTrainConfig().MinSamples
	}
	if cfg.Forest.Trees < 1 {
		cfg.Forest = DefaultForestConfig()
	}
	return &Pipeline{
		cfg:    cfg,
		store:  store,
		logger: logger.With().Str("component", "training").Logger(),
	}
}

// Train fits a new model on the batch, atomically replaces the current
// snapshot and persists it best-effort. A persistence failure after a
// successful fit is logged and does not roll back the in-memory snapshot.
func (p *Pipeline) Train(ctx context.Context, records []feature.Record) (*TrainResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()

	snap, result, err := Fit(ctx, p.cfg, records)
	if err != nil {
		metrics.RecordTrainingRun(outcomeFor(err), time.Since(start))
		return nil, err
	}

	p.store.Replace(snap)

	if perr := p.store.Persist(snap); perr != nil {
		// Non-fatal: the in-memory snapshot is already live.
		p.logger.Warn().Err(perr).Msg("failed to persist model snapshot")
	}

	metrics.RecordTrainingRun("success", time.Since(start))
	p.logger.Info().
		Int("samples", result.SamplesTrained).
		Float64("r2", result.R2Score).
		Dur("duration", time.Since(start)).
		Msg("training complete")

	return result, nil
}

// outcomeFor maps a training error to a metrics outcome label.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrInvalidData):
		return "invalid_data"
	default:
		return "error"
	}
}

// Fit runs the full training computation without touching any shared state.
// It is used directly by the offline evaluation harness, which needs a
// snapshot without replacing the live model.
func Fit(ctx context.Context, cfg TrainConfig, records []feature.Record) (*Snapshot, *TrainResult, error) {
	usable, prices := filterUsable(records)
	if len(usable) < cfg.MinSamples {
		return nil, nil, fmt.Errorf("%w: %d usable records, need at least %d",
			ErrInsufficientData, len(usable), cfg.MinSamples)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	areaMin, areaMax := feature.AreaBounds(usable)

	X := make([][]float64, len(usable))
	yLog := make([]float64, len(usable))
	for i := range usable {
		X[i] = feature.Vector(&usable[i], areaMin, areaMax)
		// ln(1+price) compresses the scale disparity between rental and
		// sale prices so neither dominates the loss.
		yLog[i] = math.Log1p(prices[i])
	}

	if hasNonFinite(X, yLog) {
		return nil, nil, fmt.Errorf("%w: encoded matrices are not finite", ErrInvalidData)
	}

	scalerX, err := FitScaler(X)
	if err != nil {
		return nil, nil, fmt.Errorf("fit input scaler: %w", err)
	}
	scalerY, err := FitScalerColumn(yLog)
	if err != nil {
		return nil, nil, fmt.Errorf("fit target scaler: %w", err)
	}

	XScaled, err := scalerX.TransformAll(X)
	if err != nil {
		return nil, nil, fmt.Errorf("scale features: %w", err)
	}
	yScaled, err := scalerY.TransformColumn(yLog)
	if err != nil {
		return nil, nil, fmt.Errorf("scale target: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	forest, err := TrainForest(cfg.Forest, XScaled, yScaled)
	if err != nil {
		return nil, nil, fmt.Errorf("fit regressor: %w", err)
	}

	r2, err := rSquared(forest, XScaled, yScaled)
	if err != nil {
		return nil, nil, fmt.Errorf("compute r2: %w", err)
	}

	names := make([]string, len(feature.FeatureNames))
	copy(names, feature.FeatureNames)

	snap := &Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Model:         forest,
		ScalerX:       scalerX,
		ScalerY:       scalerY,
		FeatureNames:  names,
		AreaMin:       areaMin,
		AreaMax:       areaMax,
		Cities:        vocabulary(usable, func(r *feature.Record) string { return r.CityName() }),
		Types:         vocabulary(usable, func(r *feature.Record) string { return r.TypeName() }),
		SampleCount:   len(usable),
		TrainedAt:     time.Now().UTC(),
	}

	result := &TrainResult{
		SamplesTrained: len(usable),
		R2Score:        r2,
		FeatureNames:   names,
		ModelType:      ModelType,
	}

	return snap, result, nil
}

// filterUsable drops records whose resolved price is absent or non-positive.
func filterUsable(records []feature.Record) ([]feature.Record, []float64) {
	usable := make([]feature.Record, 0, len(records))
	prices := make([]float64, 0, len(records))
	for i := range records {
		price, ok := records[i].ResolvePrice()
		if !ok {
			continue
		}
		usable = append(usable, records[i])
		prices = append(prices, price)
	}
	return usable, prices
}

// hasNonFinite reports whether any value in the matrices is NaN or Inf.
func hasNonFinite(X [][]float64, y []float64) bool {
	for _, row := range X {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// rSquared computes the in-sample coefficient of determination on the
// scaled log target. Diagnostic only; not a pass/fail gate.
func rSquared(forest *Forest, X [][]float64, y []float64) (float64, error) {
	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssRes, ssTot float64
	for i, row := range X {
		pred, err := forest.Predict(row)
		if err != nil {
			return 0, err
		}
		d := y[i] - pred
		ssRes += d * d
		t := y[i] - mean
		ssTot += t * t
	}

	if ssTot <= 0 {
		return 0, nil
	}
	return 1 - ssRes/ssTot, nil
}

// vocabulary collects the sorted unique values of a record attribute.
func vocabulary(records []feature.Record, get func(*feature.Record) string) []string {
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		seen[get(&records[i])] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
