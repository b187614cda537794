// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package config loads and validates the Listwise service configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//
//  1. Built-in defaults
//  2. Config file (config.yaml)
//  3. Environment variables (LISTWISE_ prefix, e.g. LISTWISE_SERVER__PORT)
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Listwise service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Model     ModelConfig     `koanf:"model"`
	Recommend RecommendConfig `koanf:"recommend"`
	Database  DatabaseConfig  `koanf:"database"`
	Training  TrainingConfig  `koanf:"training"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ModelConfig holds price-model hyperparameters and persistence settings.
type ModelConfig struct {
	// Path is where the trained model snapshot is persisted.
	Path string `koanf:"path"`

	// MinTrainingSamples is the minimum number of usable listings
	// required for a training call to proceed.
	MinTrainingSamples int `koanf:"min_training_samples"`

	// Random-forest hyperparameters.
	Trees           int   `koanf:"trees"`
	MaxDepth        int   `koanf:"max_depth"`
	MinSamplesSplit int   `koanf:"min_samples_split"`
	Seed            int64 `koanf:"seed"`

	// ConfidenceMargin is the heuristic half-width of the predicted price
	// band, as a fraction of the point estimate. Not a statistical interval.
	ConfidenceMargin float64 `koanf:"confidence_margin"`
}

// RecommendConfig holds recommendation engine settings. MaxTopN of zero
// leaves result counts limited only by the candidate pool.
type RecommendConfig struct {
	DefaultTopN int `koanf:"default_top_n"`
	MaxTopN     int `koanf:"max_top_n"`
}

// DatabaseConfig holds the optional listing-source database settings.
// When URL is empty the service runs without a database: training happens
// only through the API, and scheduled retraining is disabled.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// TrainingConfig holds scheduled retraining settings.
type TrainingConfig struct {
	ScheduleEnabled bool `koanf:"schedule_enabled"`

	// Schedule is a standard 5-field cron expression.
	Schedule string `koanf:"schedule"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8090,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Model: ModelConfig{
			Path:               "/data/model_snapshot.json",
			MinTrainingSamples: 5,
			Trees:              100,
			MaxDepth:           20,
			MinSamplesSplit:    5,
			Seed:               42,
			ConfidenceMargin:   0.15,
		},
		Recommend: RecommendConfig{
			DefaultTopN: 5,
			MaxTopN:     0,
		},
		Database: DatabaseConfig{
			URL: "",
		},
		Training: TrainingConfig{
			ScheduleEnabled: false,
			Schedule:        "0 3 * * *",
		},
		Security: SecurityConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model.path must not be empty")
	}
	if c.Model.MinTrainingSamples < 2 {
		return fmt.Errorf("model.min_training_samples must be >= 2, got %d", c.Model.MinTrainingSamples)
	}
	if c.Model.Trees < 1 {
		return fmt.Errorf("model.trees must be >= 1, got %d", c.Model.Trees)
	}
	if c.Model.MaxDepth < 1 {
		return fmt.Errorf("model.max_depth must be >= 1, got %d", c.Model.MaxDepth)
	}
	if c.Model.MinSamplesSplit < 2 {
		return fmt.Errorf("model.min_samples_split must be >= 2, got %d", c.Model.MinSamplesSplit)
	}
	if c.Model.ConfidenceMargin <= 0 || c.Model.ConfidenceMargin >= 1 {
		return fmt.Errorf("model.confidence_margin must be in (0, 1), got %f", c.Model.ConfidenceMargin)
	}
	if c.Recommend.DefaultTopN < 1 {
		return fmt.Errorf("recommend.default_top_n must be >= 1, got %d", c.Recommend.DefaultTopN)
	}
	if c.Recommend.MaxTopN < 0 {
		return fmt.Errorf("recommend.max_top_n must be >= 0, got %d", c.Recommend.MaxTopN)
	}
	// Zero means uncapped; a positive cap below the default would make the
	// default unreachable.
	if c.Recommend.MaxTopN > 0 && c.Recommend.MaxTopN < c.Recommend.DefaultTopN {
		return fmt.Errorf("recommend.max_top_n (%d) must be >= recommend.default_top_n (%d)",
			c.Recommend.MaxTopN, c.Recommend.DefaultTopN)
	}
	if c.Training.ScheduleEnabled {
		if c.Database.URL == "" {
			return fmt.Errorf("training.schedule_enabled requires database.url")
		}
		if c.Training.Schedule == "" {
			return fmt.Errorf("training.schedule must not be empty when scheduling is enabled")
		}
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitRequests < 1 {
			return fmt.Errorf("security.rate_limit_requests must be >= 1, got %d", c.Security.RateLimitRequests)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	return nil
}
