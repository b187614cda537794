// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package main runs the offline price-model evaluation: it loads listings
// either from the configured PostgreSQL store or from a JSON file, trains
// on a deterministic 80/20 split with the production pipeline, and prints
// holdout error overall and per listing type.
//
// Usage:
//
//	listwise-evaluate -db postgres://...      # evaluate against the listing store
//	listwise-evaluate -file listings.json     # evaluate a JSON array of records
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/listwise/listwise/internal/config"
	"github.com/listwise/listwise/internal/evaluate"
	"github.com/listwise/listwise/internal/feature"
	"github.com/listwise/listwise/internal/listings"
	"github.com/listwise/listwise/internal/logging"
	"github.com/listwise/listwise/internal/pricing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "listwise-evaluate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dbURL    = flag.String("db", "", "PostgreSQL URL of the listing store (defaults to the configured database)")
		filePath = flag.String("file", "", "path to a JSON array of listing records")
		seed     = flag.Int64("seed", 42, "shuffle seed for the train/test split")
		asJSON   = flag.Bool("json", false, "emit the report as JSON")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{Level: "warn", Format: "console"})
	logger := logging.Logger()

	ctx := context.Background()

	var records []feature.Record
	switch {
	case *filePath != "":
		data, err := os.ReadFile(*filePath)
		if err != nil {
			return fmt.Errorf("read listings file: %w", err)
		}
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("parse listings file: %w", err)
		}
	default:
		url := *dbURL
		if url == "" {
			url = cfg.Database.URL
		}
		if url == "" {
			return fmt.Errorf("no listing source: pass -db, -file, or configure database.url")
		}
		store, err := listings.NewPostgresStore(ctx, url, logger)
		if err != nil {
			return fmt.Errorf("connect listing store: %w", err)
		}
		defer store.Close()

		records, err = store.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch listings: %w", err)
		}
	}

	report, err := evaluate.Run(ctx, pricing.TrainConfig{
		MinSamples: cfg.Model.MinTrainingSamples,
		Forest: pricing.ForestConfig{
			Trees:           cfg.Model.Trees,
			MaxDepth:        cfg.Model.MaxDepth,
			MinSamplesSplit: cfg.Model.MinSamplesSplit,
			Seed:            cfg.Model.Seed,
		},
	}, records, *seed)
	if err != nil {
		return err
	}

	if *asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printReport(report)
	return nil
}

func printReport(r *evaluate.Report) {
	fmt.Printf("Listings:       %d total, %d usable\n", r.TotalRecords, r.UsableRecords)
	fmt.Printf("Split:          %d train / %d test\n", r.TrainCount, r.TestCount)
	fmt.Printf("Train R2:       %.4f\n", r.TrainR2)
	fmt.Printf("Holdout MAPE:   %.2f%% (mean abs error %.2f)\n", r.Overall.MAPE, r.Overall.MeanAbsError)
	for _, typ := range r.TypeNames() {
		m := r.PerType[typ]
		fmt.Printf("  %-8s n=%-4d MAPE %.2f%% (mean abs error %.2f)\n", typ, m.Count, m.MAPE, m.MeanAbsError)
	}
}
