// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package main is the entry point for the Listwise inference server.
//
// Listwise serves real-estate price estimates from a random-forest model
// trained over the API or on a schedule, plus content-based listing
// recommendations.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, config file,
//     LISTWISE_-prefixed environment variables)
//  2. Model store: restore a persisted snapshot if present; otherwise the
//     service starts untrained and accepts training through the API
//  3. Listing store (optional): PostgreSQL listing source via pgx
//  4. Scheduler (optional): cron-based retraining from the listing store
//  5. HTTP server: Chi routes under /api/v1 plus /metrics
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests, then stops the
// scheduler and closes the database pool.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/listwise/listwise/internal/api"
	"github.com/listwise/listwise/internal/config"
	"github.com/listwise/listwise/internal/listings"
	"github.com/listwise/listwise/internal/logging"
	"github.com/listwise/listwise/internal/pricing"
	"github.com/listwise/listwise/internal/recommend"
	"github.com/listwise/listwise/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "listwise: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("version", api.Version).
		Int("port", cfg.Server.Port).
		Msg("starting listwise")

	store := pricing.NewStore(cfg.Model.Path, logger)
	if err := store.Load(); err != nil {
		return fmt.Errorf("load model snapshot: %w", err)
	}

	pipeline := pricing.NewPipeline(pricing.TrainConfig{
		MinSamples: cfg.Model.MinTrainingSamples,
		Forest: pricing.ForestConfig{
			Trees:           cfg.Model.Trees,
			MaxDepth:        cfg.Model.MaxDepth,
			MinSamplesSplit: cfg.Model.MinSamplesSplit,
			Seed:            cfg.Model.Seed,
		},
	}, store, logger)

	predictor := pricing.NewPredictor(pricing.PredictorConfig{
		Margin: cfg.Model.ConfidenceMargin,
	}, store)

	engine := recommend.NewEngine(recommend.Config{
		DefaultTopN: cfg.Recommend.DefaultTopN,
		MaxTopN:     cfg.Recommend.MaxTopN,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var listingStore *listings.PostgresStore
	if cfg.Database.URL != "" {
		listingStore, err = listings.NewPostgresStore(ctx, cfg.Database.URL, logger)
		if err != nil {
			return fmt.Errorf("connect listing store: %w", err)
		}
		defer listingStore.Close()
		logging.Info().Msg("listing store connected")
	}

	var sched *scheduler.Scheduler
	if cfg.Training.ScheduleEnabled {
		if listingStore == nil {
			return errors.New("scheduled retraining requires database.url")
		}
		sched = scheduler.New(cfg.Training.Schedule, listingStore, pipeline, logger)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	handler := api.NewHandler(cfg, pipeline, predictor, engine)
	router := api.NewRouter(handler, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logging.Info().Msg("listwise stopped")
	return nil
}
