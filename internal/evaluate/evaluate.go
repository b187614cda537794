// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package evaluate measures price-model accuracy on a held-out split. It
// reuses the production training pipeline so the offline numbers reflect
// exactly what the service would deploy.
package evaluate

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/listwise/listwise/internal/feature"
	"github.com/listwise/listwise/internal/pricing"
)

// HoldoutFraction is the share of usable records reserved for testing.
const HoldoutFraction = 0.2

// Metric summarizes prediction error over one group of holdout records.
type Metric struct {
	Count int `json:"count"`

	// MAPE is the mean absolute percentage error, in percent.
	MAPE float64 `json:"mape"`

	// MeanAbsError is the mean absolute error in price units.
	MeanAbsError float64 `json:"mean_abs_error"`
}

// Report is the result of one evaluation run.
type Report struct {
	TotalRecords  int `json:"total_records"`
	UsableRecords int `json:"usable_records"`
	TrainCount    int `json:"train_count"`
	TestCount     int `json:"test_count"`

	TrainR2 float64 `json:"train_r2"`

	Overall Metric            `json:"overall"`
	PerType map[string]Metric `json:"per_type"`
}

// Run trains on a deterministic 80/20 split of the usable records and
// reports holdout error overall and per listing type. seed controls the
// shuffle so runs are reproducible.
func Run(ctx context.Context, cfg pricing.TrainConfig, records []feature.Record, seed int64) (*Report, error) {
	type labeled struct {
		rec   feature.Record
		price float64
	}

	usable := make([]labeled, 0, len(records))
	for i := range records {
		if price, ok := records[i].ResolvePrice(); ok {
			usable = append(usable, labeled{rec: records[i], price: price})
		}
	}

	testSize := int(math.Round(float64(len(usable)) * HoldoutFraction))
	if testSize < 1 || len(usable)-testSize < cfg.MinSamples {
		return nil, fmt.Errorf("%w: %d usable records cannot support a %d%% holdout with %d training minimum",
			pricing.ErrInsufficientData, len(usable), int(HoldoutFraction*100), cfg.MinSamples)
	}

	idx := make([]int, len(usable))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic shuffle, not cryptography
	rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

	testIdx := idx[:testSize]
	trainIdx := idx[testSize:]

	train := make([]feature.Record, len(trainIdx))
	for i, j := range trainIdx {
		train[i] = usable[j].rec
	}

	snap, result, err := pricing.Fit(ctx, cfg, train)
	if err != nil {
		return nil, fmt.Errorf("fit on training split: %w", err)
	}

	type accum struct {
		count  int
		pctSum float64
		absSum float64
	}
	overall := accum{}
	perType := make(map[string]*accum)

	for _, j := range testIdx {
		predicted, err := snap.PredictRecord(&usable[j].rec)
		if err != nil {
			return nil, fmt.Errorf("predict holdout record: %w", err)
		}

		actual := usable[j].price
		absErr := math.Abs(predicted - actual)
		pctErr := absErr / actual * 100

		overall.count++
		overall.absSum += absErr
		overall.pctSum += pctErr

		typ := usable[j].rec.TypeName()
		if perType[typ] == nil {
			perType[typ] = &accum{}
		}
		perType[typ].count++
		perType[typ].absSum += absErr
		perType[typ].pctSum += pctErr
	}

	toMetric := func(a accum) Metric {
		return Metric{
			Count:        a.count,
			MAPE:         a.pctSum / float64(a.count),
			MeanAbsError: a.absSum / float64(a.count),
		}
	}

	report := &Report{
		TotalRecords:  len(records),
		UsableRecords: len(usable),
		TrainCount:    len(train),
		TestCount:     testSize,
		TrainR2:       result.R2Score,
		Overall:       toMetric(overall),
		PerType:       make(map[string]Metric, len(perType)),
	}
	for typ, a := range perType {
		report.PerType[typ] = toMetric(*a)
	}

	return report, nil
}

// TypeNames returns the report's listing types in stable order.
func (r *Report) TypeNames() []string {
	names := make([]string, 0, len(r.PerType))
	for typ := range r.PerType {
		names = append(names, typ)
	}
	sort.Strings(names)
	return names
}
