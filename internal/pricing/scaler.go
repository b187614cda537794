// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package pricing

import (
	"fmt"
	"math"
)

// StandardScaler rescales columns to zero mean and unit variance using
// statistics captured at fit time. Both the feature scaler and the target
// scaler are part of the model snapshot so predictions can be inverse-
// transformed with exactly the statistics seen during training.
//
// The exported fields make the scaler part of the versioned snapshot schema.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-column mean and population standard deviation over
// the given row-major matrix. Columns with zero variance get a standard
// deviation of 1 so transforming them is the identity around the mean.
func FitScaler(rows [][]float64) (*StandardScaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("fit scaler: empty matrix")
	}
	cols := len(rows[0])

	mean := make([]float64, cols)
	for _, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("fit scaler: ragged matrix (%d vs %d columns)", len(row), cols)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	std := make([]float64, cols)
	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1
		}
	}

	return &StandardScaler{Mean: mean, Std: std}, nil
}

// FitScalerColumn fits a scaler over a single column of values.
func FitScalerColumn(values []float64) (*StandardScaler, error) {
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = []float64{v}
	}
	return FitScaler(rows)
}

// Transform standardizes a vector in place-order, returning a new slice.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("transform: got %d values, scaler fitted on %d", len(x), len(s.Mean))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// TransformAll standardizes every row of a matrix.
func (s *StandardScaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		t, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// TransformColumn standardizes a single column of values with a
// single-column scaler.
func (s *StandardScaler) TransformColumn(values []float64) ([]float64, error) {
	if len(s.Mean) != 1 {
		return nil, fmt.Errorf("transform column: scaler has %d columns, want 1", len(s.Mean))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.Mean[0]) / s.Std[0]
	}
	return out, nil
}

// InverseValue undoes standardization for a single scalar from a
// single-column scaler.
func (s *StandardScaler) InverseValue(v float64) (float64, error) {
	if len(s.Mean) != 1 {
		return 0, fmt.Errorf("inverse value: scaler has %d columns, want 1", len(s.Mean))
	}
	return v*s.Std[0] + s.Mean[0], nil
}

// Dim returns the number of columns the scaler was fitted on.
func (s *StandardScaler) Dim() int { return len(s.Mean) }
