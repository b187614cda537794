// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

// Package feature encodes raw listing records into fixed-length numeric
// feature vectors.
//
// This package is the only place encoding logic lives. The training
// pipeline, the predictor and the offline evaluation harness all call it,
// which keeps training and serving byte-for-byte consistent. Any divergence
// between the two paths silently degrades prediction quality without raising
// an error, so changes here must preserve determinism.
package feature

import (
	"strings"
)

// FeatureNames is the fixed, ordered list of feature columns. Column order
// and count are shared between training and prediction; they must never
// diverge.
var FeatureNames = []string{
	"normalized_area_sqft",
	"bedrooms",
	"bathrooms",
	"normalized_city_code",
	"normalized_type_code",
	"property_age_years",
}

// VectorLen is the length of every feature vector produced by this package.
const VectorLen = 6

// areaEpsilon prevents division by zero when every area in a batch is equal.
const areaEpsilon = 1e-8

// EncodeCategory deterministically maps a categorical value to [0, 1).
// The empty value encodes to 0.5. Non-empty values are hashed by summing
// Unicode code points modulo 100. This is a coarse deterministic hash, not a
// learned embedding; identical strings always encode identically, which is
// the property training and inference rely on.
func EncodeCategory(value string) float64 {
	if value == "" {
		return 0.5
	}
	sum := 0
	for _, r := range value {
		sum += int(r)
	}
	return float64(sum%100) / 100.0
}

// EncodeType maps a listing type to {0.0, 0.5, 1.0}, case-insensitively:
// "rent" -> 0.0, "sale" -> 1.0, anything else -> 0.5.
func EncodeType(value string) float64 {
	switch strings.ToLower(value) {
	case "rent":
		return 0.0
	case "sale":
		return 1.0
	default:
		return 0.5
	}
}

// NormalizeArea min-max normalizes an area against the bounds observed in a
// training batch.
func NormalizeArea(value, areaMin, areaMax float64) float64 {
	return (value - areaMin) / (areaMax - areaMin + areaEpsilon)
}

// Vector assembles the feature vector for a record using the given area
// bounds. Missing numeric fields are repaired with package defaults. The
// categorical columns encode the raw values: a missing city or type maps
// to the neutral 0.5, not to the hash of the "unknown" placeholder. The
// output column order matches FeatureNames exactly.
func Vector(rec *Record, areaMin, areaMax float64) []float64 {
	return []float64{
		NormalizeArea(rec.Area(), areaMin, areaMax),
		rec.BedroomCount(),
		rec.BathroomCount(),
		EncodeCategory(rec.City),
		EncodeType(rec.Type),
		rec.Age(),
	}
}

// AreaBounds returns the minimum and maximum area across a batch of records
// after defaults are applied. The batch must be non-empty.
func AreaBounds(records []Record) (areaMin, areaMax float64) {
	areaMin = records[0].Area()
	areaMax = areaMin
	for i := 1; i < len(records); i++ {
		a := records[i].Area()
		if a < areaMin {
			areaMin = a
		}
		if a > areaMax {
			areaMax = a
		}
	}
	return areaMin, areaMax
}
