// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package pricing

import (
	"context"
	"errors"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/listwise/listwise/internal/feature"
	"github.com/listwise/listwise/internal/logging"
)

func f64(v float64) *float64 { return &v }

// testRecords returns a batch of usable listing records spanning both
// listing types and several cities.
func testRecords() []feature.Record {
	return []feature.Record{
		{ID: "a", AreaSqFt: f64(650), Bedrooms: f64(1), Bathrooms: f64(1), City: "Pune", Type: "rent", AgeYears: f64(3), RegularPrice: f64(14000)},
		{ID: "b", AreaSqFt: f64(900), Bedrooms: f64(2), Bathrooms: f64(2), City: "Pune", Type: "rent", AgeYears: f64(6), RegularPrice: f64(21000)},
		{ID: "c", AreaSqFt: f64(1200), Bedrooms: f64(3), Bathrooms: f64(2), City: "Mumbai", Type: "sale", AgeYears: f64(2), RegularPrice: f64(9500000)},
		{ID: "d", AreaSqFt: f64(1500), Bedrooms: f64(3), Bathrooms: f64(3), City: "Mumbai", Type: "sale", AgeYears: f64(10), RegularPrice: f64(12500000)},
		{ID: "e", AreaSqFt: f64(800), Bedrooms: f64(2), Bathrooms: f64(1), City: "Nagpur", Type: "rent", AgeYears: f64(8), RegularPrice: f64(11000)},
		{ID: "f", AreaSqFt: f64(2000), Bedrooms: f64(4), Bathrooms: f64(3), City: "Nagpur", Type: "sale", AgeYears: f64(1), RegularPrice: f64(8000000)},
	}
}

func testConfig() TrainConfig {
	return TrainConfig{
		MinSamples: 5,
		Forest:     ForestConfig{Trees: 10, MaxDepth: 10, MinSamplesSplit: 2, Seed: 42},
	}
}

func TestFitSuccess(t *testing.T) {
	snap, result, err := Fit(context.Background(), testConfig(), testRecords())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if result.SamplesTrained != 6 {
		t.Errorf("SamplesTrained = %d, want 6", result.SamplesTrained)
	}
	if result.ModelType != ModelType {
		t.Errorf("ModelType = %q, want %q", result.ModelType, ModelType)
	}
	if result.R2Score < 0.5 || result.R2Score > 1 {
		t.Errorf("R2Score = %v, want within (0.5, 1]", result.R2Score)
	}

	if snap.SchemaVersion != SnapshotSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", snap.SchemaVersion, SnapshotSchemaVersion)
	}
	if snap.AreaMin != 650 || snap.AreaMax != 2000 {
		t.Errorf("area bounds = [%v, %v], want [650, 2000]", snap.AreaMin, snap.AreaMax)
	}
	if snap.SampleCount != 6 {
		t.Errorf("SampleCount = %d, want 6", snap.SampleCount)
	}
	if snap.TrainedAt.IsZero() {
		t.Error("TrainedAt is zero")
	}

	wantCities := []string{"Mumbai", "Nagpur", "Pune"}
	if len(snap.Cities) != len(wantCities) {
		t.Fatalf("Cities = %v, want %v", snap.Cities, wantCities)
	}
	for i, c := range wantCities {
		if snap.Cities[i] != c {
			t.Errorf("Cities[%d] = %q, want %q", i, snap.Cities[i], c)
		}
	}
	if len(snap.Types) != 2 || snap.Types[0] != "rent" || snap.Types[1] != "sale" {
		t.Errorf("Types = %v, want [rent sale]", snap.Types)
	}

	if err := snap.validate(); err != nil {
		t.Errorf("validate() error = %v", err)
	}
}

func TestFitInsufficientData(t *testing.T) {
	records := testRecords()[:4]

	_, _, err := Fit(context.Background(), testConfig(), records)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Fit() error = %v, want ErrInsufficientData", err)
	}
}

func TestFitPriceResolutionFilter(t *testing.T) {
	records := testRecords()
	// Unusable records must not count toward the minimum.
	records = append(records,
		feature.Record{ID: "no-price", AreaSqFt: f64(1000)},
		feature.Record{ID: "zero-price", AreaSqFt: f64(1000), RegularPrice: f64(0)},
		feature.Record{ID: "negative", AreaSqFt: f64(1000), RegularPrice: f64(-5)},
	)

	_, result, err := Fit(context.Background(), testConfig(), records)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if result.SamplesTrained != 6 {
		t.Errorf("SamplesTrained = %d, want 6 after filtering", result.SamplesTrained)
	}
}

func TestFitDiscountedPriceWins(t *testing.T) {
	cfg := testConfig()
	cfg.MinSamples = 2
	records := []feature.Record{
		{ID: "a", AreaSqFt: f64(800), RegularPrice: f64(100000), DiscountPrice: f64(80000), Offer: true},
		{ID: "b", AreaSqFt: f64(900), RegularPrice: f64(110000), DiscountPrice: f64(85000), Offer: false},
		{ID: "c", AreaSqFt: f64(1000), RegularPrice: f64(120000)},
	}

	usable, prices := filterUsable(records)
	if len(usable) != 3 {
		t.Fatalf("filterUsable() kept %d records, want 3", len(usable))
	}
	want := []float64{80000, 110000, 120000}
	for i, p := range want {
		if prices[i] != p {
			t.Errorf("price[%d] = %v, want %v", i, prices[i], p)
		}
	}

	if _, _, err := Fit(context.Background(), cfg, records); err != nil {
		t.Errorf("Fit() error = %v", err)
	}
}

func TestFitRejectsNonFiniteFeatures(t *testing.T) {
	records := testRecords()
	records[0].AreaSqFt = f64(math.NaN())

	_, _, err := Fit(context.Background(), testConfig(), records)
	if !errors.Is(err, ErrInvalidData) {
		t.Errorf("Fit() error = %v, want ErrInvalidData", err)
	}
}

func TestFitDeterministic(t *testing.T) {
	ctx := context.Background()
	snap1, _, err := Fit(ctx, testConfig(), testRecords())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	snap2, _, err := Fit(ctx, testConfig(), testRecords())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	probe := feature.Record{AreaSqFt: f64(1100), Bedrooms: f64(2), Bathrooms: f64(2), City: "Pune", Type: "sale", AgeYears: f64(4)}
	p1, err := snap1.PredictRecord(&probe)
	if err != nil {
		t.Fatalf("PredictRecord() error = %v", err)
	}
	p2, err := snap2.PredictRecord(&probe)
	if err != nil {
		t.Fatalf("PredictRecord() error = %v", err)
	}
	if p1 != p2 {
		t.Errorf("repeated training predicted %v then %v, want identical", p1, p2)
	}
}

func TestPipelineTrainReplacesAndPersists(t *testing.T) {
	logger := logging.NewTestLogger(io.Discard)
	path := filepath.Join(t.TempDir(), "model_snapshot.json")
	store := NewStore(path, logger)
	pipe := NewPipeline(testConfig(), store, logger)

	if _, ok := store.Current(); ok {
		t.Fatal("store should start untrained")
	}

	result, err := pipe.Train(context.Background(), testRecords())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if result.SamplesTrained != 6 {
		t.Errorf("SamplesTrained = %d, want 6", result.SamplesTrained)
	}

	snap, ok := store.Current()
	if !ok {
		t.Fatal("store untrained after Train()")
	}
	if snap.SampleCount != 6 {
		t.Errorf("SampleCount = %d, want 6", snap.SampleCount)
	}

	// The snapshot must also have been persisted and be loadable.
	restore := NewStore(path, logger)
	if err := restore.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	loaded, ok := restore.Current()
	if !ok {
		t.Fatal("persisted snapshot did not restore")
	}
	if loaded.SampleCount != snap.SampleCount {
		t.Errorf("restored SampleCount = %d, want %d", loaded.SampleCount, snap.SampleCount)
	}
}

func TestPipelineTrainErrorLeavesStoreUntouched(t *testing.T) {
	logger := logging.NewTestLogger(io.Discard)
	store := NewStore(filepath.Join(t.TempDir(), "model.json"), logger)
	pipe := NewPipeline(testConfig(), store, logger)

	if _, err := pipe.Train(context.Background(), testRecords()[:2]); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Train() error = %v, want ErrInsufficientData", err)
	}
	if _, ok := store.Current(); ok {
		t.Error("failed training must not install a snapshot")
	}
}
