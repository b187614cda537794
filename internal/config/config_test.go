// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.Timeout = 0 },
			wantErr: "server.timeout",
		},
		{
			name:    "empty model path",
			mutate:  func(c *Config) { c.Model.Path = "" },
			wantErr: "model.path",
		},
		{
			name:    "min training samples too small",
			mutate:  func(c *Config) { c.Model.MinTrainingSamples = 1 },
			wantErr: "min_training_samples",
		},
		{
			name:    "confidence margin out of range",
			mutate:  func(c *Config) { c.Model.ConfidenceMargin = 1.5 },
			wantErr: "confidence_margin",
		},
		{
			name:    "positive max topN below default topN",
			mutate:  func(c *Config) { c.Recommend.MaxTopN = 2 },
			wantErr: "max_top_n",
		},
		{
			name:    "negative max topN",
			mutate:  func(c *Config) { c.Recommend.MaxTopN = -1 },
			wantErr: "max_top_n",
		},
		{
			name:    "zero max topN disables cap",
			mutate:  func(c *Config) { c.Recommend.MaxTopN = 0 },
			wantErr: "",
		},
		{
			name: "schedule enabled without database",
			mutate: func(c *Config) {
				c.Training.ScheduleEnabled = true
				c.Database.URL = ""
			},
			wantErr: "database.url",
		},
		{
			name: "schedule enabled with database",
			mutate: func(c *Config) {
				c.Training.ScheduleEnabled = true
				c.Database.URL = "postgres://localhost/listings"
			},
			wantErr: "",
		},
		{
			name: "rate limit window must be positive",
			mutate: func(c *Config) {
				c.Security.RateLimitWindow = -time.Second
			},
			wantErr: "rate_limit_window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"LISTWISE_SERVER__PORT", "server.port"},
		{"LISTWISE_MODEL__MIN_TRAINING_SAMPLES", "model.min_training_samples"},
		{"LISTWISE_SECURITY__RATE_LIMIT_REQUESTS", "security.rate_limit_requests"},
		{"LISTWISE_DATABASE__URL", "database.url"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransform(tt.input); got != tt.want {
				t.Errorf("envTransform(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("LISTWISE_SERVER__PORT", "9000")
	t.Setenv("LISTWISE_MODEL__TREES", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Model.Trees != 10 {
		t.Errorf("Model.Trees = %d, want 10", cfg.Model.Trees)
	}
	// Untouched values keep defaults.
	if cfg.Recommend.DefaultTopN != 5 {
		t.Errorf("Recommend.DefaultTopN = %d, want 5", cfg.Recommend.DefaultTopN)
	}
}
