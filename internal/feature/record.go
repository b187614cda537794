// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package feature

// Field defaults applied to missing listing attributes.
const (
	DefaultAreaSqFt  = 1000.0
	DefaultBedrooms  = 1.0
	DefaultBathrooms = 1.0
	DefaultAgeYears  = 5.0
	DefaultCategory  = "unknown"
)

// Record is a raw listing record as supplied by callers and the upstream
// listing store. Every field is optional; missing fields are repaired with
// documented defaults at the encoding boundary rather than rejected.
// Pointer fields distinguish "absent" from a provided zero value.
type Record struct {
	ID            string   `json:"id,omitempty"`
	AreaSqFt      *float64 `json:"areaSqFt,omitempty"`
	Bedrooms      *float64 `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	City          string   `json:"city,omitempty"`
	Type          string   `json:"type,omitempty"`
	AgeYears      *float64 `json:"age,omitempty"`
	RegularPrice  *float64 `json:"regularPrice,omitempty"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Offer         bool     `json:"offer,omitempty"`
}

// Area returns the listing area, applying the default when absent.
func (r *Record) Area() float64 {
	if r.AreaSqFt == nil {
		return DefaultAreaSqFt
	}
	return *r.AreaSqFt
}

// BedroomCount returns the bedroom count, applying the default when absent.
func (r *Record) BedroomCount() float64 {
	if r.Bedrooms == nil {
		return DefaultBedrooms
	}
	return *r.Bedrooms
}

// BathroomCount returns the bathroom count, applying the default when absent.
func (r *Record) BathroomCount() float64 {
	if r.Bathrooms == nil {
		return DefaultBathrooms
	}
	return *r.Bathrooms
}

// Age returns the listing age in years, applying the default when absent.
func (r *Record) Age() float64 {
	if r.AgeYears == nil {
		return DefaultAgeYears
	}
	return *r.AgeYears
}

// CityName returns the city, applying the default when absent.
func (r *Record) CityName() string {
	if r.City == "" {
		return DefaultCategory
	}
	return r.City
}

// TypeName returns the listing type, applying the default when absent.
func (r *Record) TypeName() string {
	if r.Type == "" {
		return DefaultCategory
	}
	return r.Type
}

// ResolvePrice returns the effective price of a listing and whether it is
// usable as a training target. When an offer is active and a positive
// discounted price is present, the discounted price wins; otherwise the
// regular price applies. A missing or non-positive resolved price makes the
// record unusable (ok=false) - a data-quality filter, not an error.
func (r *Record) ResolvePrice() (price float64, ok bool) {
	if r.Offer && r.DiscountPrice != nil && *r.DiscountPrice > 0 {
		return *r.DiscountPrice, true
	}
	if r.RegularPrice != nil && *r.RegularPrice > 0 {
		return *r.RegularPrice, true
	}
	return 0, false
}
