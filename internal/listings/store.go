// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package listings provides access to the upstream listing store used by
// scheduled retraining and the offline evaluation harness. The HTTP API
// never reads from here; callers supply records inline.
package listings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/listwise/listwise/internal/feature"
)

// Source yields listing records for training.
type Source interface {
	Fetch(ctx context.Context) ([]feature.Record, error)
}

// PostgresStore reads listings from a PostgreSQL database.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore connects to the database and verifies the connection.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPostgresStore(ctx context.Context, url string, logger zerolog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "listing-store").Logger(),
	}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Fetch returns all listings. Nullable columns map onto the record's
// optional fields so the encoder's defaults apply downstream.
func (s *PostgresStore) Fetch(ctx context.Context) ([]feature.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, area_sqft, bedrooms, bathrooms, city, type, age_years,
		       regular_price, discount_price, offer
		FROM listings
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var records []feature.Record
	for rows.Next() {
		var (
			rec  feature.Record
			city *string
			typ  *string
		)
		if err := rows.Scan(
			&rec.ID, &rec.AreaSqFt, &rec.Bedrooms, &rec.Bathrooms,
			&city, &typ, &rec.AgeYears,
			&rec.RegularPrice, &rec.DiscountPrice, &rec.Offer,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		if city != nil {
			rec.City = *city
		}
		if typ != nil {
			rec.Type = *typ
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}

	s.logger.Debug().Int("count", len(records)).Msg("fetched listings")
	return records, nil
}
