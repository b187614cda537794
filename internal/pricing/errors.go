// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package pricing

import "errors"

// Sentinel errors surfaced by the pricing pipeline. The API layer maps
// these to stable error codes; none are retried by this package.
var (
	// ErrInsufficientData indicates a training batch had fewer usable
	// records than the configured minimum after the price filter.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrInvalidData indicates NaN or Inf values were found in the encoded
	// feature or target matrices. This signals a systemic encoding defect,
	// so the whole training call fails rather than dropping rows.
	ErrInvalidData = errors.New("training data contains NaN or Inf values")

	// ErrModelNotTrained indicates a prediction was requested while the
	// store still holds the untrained sentinel.
	ErrModelNotTrained = errors.New("price model has not been trained")

	// ErrFeatureShape indicates a prediction input vector whose length does
	// not match the trained model's feature list.
	ErrFeatureShape = errors.New("feature vector shape mismatch")
)
