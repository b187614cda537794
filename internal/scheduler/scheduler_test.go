// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package scheduler

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/listwise/listwise/internal/feature"
	"github.com/listwise/listwise/internal/logging"
	"github.com/listwise/listwise/internal/pricing"
)

type stubSource struct {
	records []feature.Record
	err     error
	calls   int
}

func (s *stubSource) Fetch(ctx context.Context) ([]feature.Record, error) {
	s.calls++
	return s.records, s.err
}

func f64(v float64) *float64 { return &v }

func stubRecords() []feature.Record {
	out := make([]feature.Record, 6)
	for i := range out {
		area := 600 + float64(i)*200
		price := 10000 + float64(i)*4000
		out[i] = feature.Record{
			AreaSqFt:     f64(area),
			Bedrooms:     f64(float64(1 + i%3)),
			City:         "Pune",
			Type:         "rent",
			RegularPrice: f64(price),
		}
	}
	return out
}

func newTestScheduler(t *testing.T, source *stubSource) (*Scheduler, *pricing.Store) {
	t.Helper()
	logger := logging.NewTestLogger(io.Discard)
	store := pricing.NewStore(filepath.Join(t.TempDir(), "model.json"), logger)
	pipe := pricing.NewPipeline(pricing.TrainConfig{
		MinSamples: 5,
		Forest:     pricing.ForestConfig{Trees: 5, MaxDepth: 5, MinSamplesSplit: 2, Seed: 1},
	}, store, logger)
	return New("0 3 * * *", source, pipe, logger), store
}

func TestRunRetrainInstallsSnapshot(t *testing.T) {
	source := &stubSource{records: stubRecords()}
	s, store := newTestScheduler(t, source)

	s.runRetrain()

	if source.calls != 1 {
		t.Errorf("source fetched %d times, want 1", source.calls)
	}
	snap, ok := store.Current()
	if !ok {
		t.Fatal("retrain did not install a snapshot")
	}
	if snap.SampleCount != 6 {
		t.Errorf("SampleCount = %d, want 6", snap.SampleCount)
	}
}

func TestRunRetrainFetchErrorKeepsModel(t *testing.T) {
	source := &stubSource{err: errors.New("connection refused")}
	s, store := newTestScheduler(t, source)

	s.runRetrain()

	if _, ok := store.Current(); ok {
		t.Error("failed fetch must not install a snapshot")
	}
}

func TestRunRetrainTrainingErrorKeepsModel(t *testing.T) {
	source := &stubSource{records: stubRecords()[:2]}
	s, store := newTestScheduler(t, source)

	s.runRetrain()

	if _, ok := store.Current(); ok {
		t.Error("insufficient data must not install a snapshot")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	source := &stubSource{}
	s, _ := newTestScheduler(t, source)
	s.schedule = "not a cron expression"

	if err := s.Start(); err == nil {
		t.Error("Start() with invalid schedule expected error")
	}
}

func TestStartStop(t *testing.T) {
	source := &stubSource{records: stubRecords()}
	s, _ := newTestScheduler(t, source)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}
