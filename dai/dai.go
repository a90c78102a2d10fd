// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dai

import (
	"errors"
	"fmt"
	"math"
)

// Category is the qualitative band derived from a score
type Category string

const (
	CategoryLow    Category = "low"
	CategoryMedium Category = "medium"
	CategoryHigh   Category = "high"
)

// GeoType is the settlement classification of a household
type GeoType string

const (
	GeoUrban    GeoType = "urban"
	GeoRural    GeoType = "rural"
	GeoMetro    GeoType = "metro"
	GeoInformal GeoType = "informal"
)

// Valid reports whether g is one of the known settlement types
func (g GeoType) Valid() bool {
	switch g {
	case GeoUrban, GeoRural, GeoMetro, GeoInformal:
		return true
	}
	return false
}

// Profile holds the household attributes the index is computed from
type Profile struct {
	HasInternetAccess bool
	HasComputer       bool
	HasSmartphone     bool
	NumSmartphones    int
	NumComputers      int
	HouseholdSize     int
	GeoType           GeoType
}

// Result is the computed index for a single profile
type Result struct {
	Score    float64
	Category Category
}

// Weights controls how much each indicator contributes to the score.
// The sum does not need to be 1; scores are normalized by the total.
type Weights struct {
	Internet    float64
	Computers   float64
	Smartphones float64
	Diversity   float64
}

func (w Weights) total() float64 {
	return w.Internet + w.Computers + w.Smartphones + w.Diversity
}

// Thresholds are inclusive lower bounds for the medium and high bands
type Thresholds struct {
	Medium float64
	High   float64
}

var (
	DefaultWeights = Weights{
		Internet:    0.40,
		Computers:   0.15,
		Smartphones: 0.20,
		Diversity:   0.25,
	}

	DefaultThresholds = Thresholds{
		Medium: 40,
		High:   70,
	}
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidWeights = errors.New("invalid weights")
)

// InvalidProfileError names the input field that failed validation
type InvalidProfileError struct {
	Field  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidProfile) match every validation failure
func (e *InvalidProfileError) Is(target error) bool {
	return target == ErrInvalidProfile
}

// Calculator computes the Digital Access Index with a fixed weighting.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	weights    Weights
	thresholds Thresholds
}

var defaultCalculator = &Calculator{weights: DefaultWeights, thresholds: DefaultThresholds}

// Default returns the calculator used by Compute
func Default() *Calculator {
	return defaultCalculator
}

// NewCalculator validates the weighting and threshold configuration
func NewCalculator(w Weights, t Thresholds) (*Calculator, error) {
	for name, v := range map[string]float64{
		"internet":    w.Internet,
		"computers":   w.Computers,
		"smartphones": w.Smartphones,
		"diversity":   w.Diversity,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s weight must be a non-negative number", ErrInvalidWeights, name)
		}
	}
	if w.total() <= 0 {
		return nil, fmt.Errorf("%w: at least one weight must be positive", ErrInvalidWeights)
	}
	if t.Medium <= 0 || t.Medium > t.High || t.High > 100 {
		return nil, fmt.Errorf("%w: thresholds must satisfy 0 < medium <= high <= 100", ErrInvalidWeights)
	}
	return &Calculator{weights: w, thresholds: t}, nil
}

// Compute scores p with the default weights and thresholds
func Compute(p Profile) (Result, error) {
	return defaultCalculator.Compute(p)
}

// Validate checks the profile constraints in a fixed field order
func Validate(p Profile) error {
	if p.HouseholdSize < 1 {
		return &InvalidProfileError{Field: "household_size", Reason: "must be at least 1"}
	}
	if p.NumSmartphones < 0 {
		return &InvalidProfileError{Field: "num_smartphones", Reason: "must not be negative"}
	}
	if p.NumComputers < 0 {
		return &InvalidProfileError{Field: "num_computers", Reason: "must not be negative"}
	}
	return nil
}

// Compute returns the index for p, or an *InvalidProfileError
func (c *Calculator) Compute(p Profile) (Result, error) {
	if err := Validate(p); err != nil {
		return Result{}, err
	}

	computers := effectiveCount(p.HasComputer, p.NumComputers)
	smartphones := effectiveCount(p.HasSmartphone, p.NumSmartphones)
	size := float64(p.HouseholdSize)

	var internet float64
	if p.HasInternetAccess {
		internet = 1
	}

	var diversity float64
	switch {
	case computers > 0 && smartphones > 0:
		diversity = 1
	case computers > 0 || smartphones > 0:
		diversity = 0.5
	}

	w := c.weights
	sum := internet*w.Internet +
		math.Min(float64(computers)/size, 1)*w.Computers +
		math.Min(float64(smartphones)/size, 1)*w.Smartphones +
		diversity*w.Diversity

	score := round(clamp(sum/w.total()*100, 0, 100), 2)

	return Result{
		Score:    score,
		Category: c.Categorize(score),
	}, nil
}

// Categorize maps a score to its band. A score equal to a threshold
// belongs to the higher band.
func (c *Calculator) Categorize(score float64) Category {
	switch {
	case score >= c.thresholds.High:
		return CategoryHigh
	case score >= c.thresholds.Medium:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// A set flag with a zero count still counts as one device
func effectiveCount(owned bool, n int) int {
	if owned && n < 1 {
		return 1
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
