// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package scheduler runs periodic retraining against the listing store.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/listwise/listwise/internal/listings"
	"github.com/listwise/listwise/internal/pricing"
)

// Scheduler retrains the price model on a cron schedule from the
// configured listing source.
type Scheduler struct {
	cron     *cron.Cron
	source   listings.Source
	pipeline *pricing.Pipeline
	schedule string
	timeout  time.Duration
	logger   zerolog.Logger
}

// New creates a retraining scheduler. schedule is a standard 5-field cron
// expression.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(schedule string, source listings.Source, pipeline *pricing.Pipeline, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		source:   source,
		pipeline: pipeline,
		schedule: schedule,
		timeout:  10 * time.Minute,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the retrain job and starts the cron loop in its own
// goroutine.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runRetrain); err != nil {
		return fmt.Errorf("register retrain job %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("scheduled retraining enabled")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("scheduler stopped")
}

// runRetrain is one scheduled training pass. Failures are logged; the
// current model stays live.
func (s *Scheduler) runRetrain() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Info().Msg("scheduled retraining started")

	records, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled retraining failed to fetch listings")
		return
	}

	result, err := s.pipeline.Train(ctx, records)
	if err != nil {
		s.logger.Error().Err(err).Int("fetched", len(records)).Msg("scheduled retraining failed")
		return
	}

	s.logger.Info().
		Int("samples", result.SamplesTrained).
		Float64("r2", result.R2Score).
		Msg("scheduled retraining complete")
}
