// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dai

import (
	"errors"
	"math"
	"sync"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCompute_Examples(t *testing.T) {
	tests := []struct {
		name         string
		profile      Profile
		wantScore    float64
		wantCategory Category
	}{
		{
			name:         "no access at all",
			profile:      Profile{HouseholdSize: 4, GeoType: GeoRural},
			wantScore:    0,
			wantCategory: CategoryLow,
		},
		{
			name: "fully connected household",
			profile: Profile{
				HasInternetAccess: true,
				HasComputer:       true,
				HasSmartphone:     true,
				NumSmartphones:    2,
				NumComputers:      1,
				HouseholdSize:     4,
				GeoType:           GeoUrban,
			},
			wantScore:    78.75,
			wantCategory: CategoryHigh,
		},
		{
			name: "smartphone only, no connection",
			profile: Profile{
				HasSmartphone:  true,
				NumSmartphones: 1,
				HouseholdSize:  2,
			},
			// 0.5*0.20 + 0.5*0.25 = 0.225
			wantScore:    22.5,
			wantCategory: CategoryLow,
		},
		{
			name: "saturated device ratios",
			profile: Profile{
				HasInternetAccess: true,
				NumSmartphones:    10,
				NumComputers:      10,
				HouseholdSize:     1,
			},
			wantScore:    100,
			wantCategory: CategoryHigh,
		},
		{
			name: "internet with one phone per person",
			profile: Profile{
				HasInternetAccess: true,
				HasSmartphone:     true,
				NumSmartphones:    3,
				HouseholdSize:     3,
				GeoType:           GeoMetro,
			},
			// 0.40 + 0.20 + 0.125
			wantScore:    72.5,
			wantCategory: CategoryHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.profile)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if !almostEqual(got.Score, tt.wantScore) {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}

func TestCompute_InvalidProfile(t *testing.T) {
	tests := []struct {
		name      string
		profile   Profile
		wantField string
	}{
		{"zero household size", Profile{HouseholdSize: 0}, "household_size"},
		{"negative household size", Profile{HouseholdSize: -3}, "household_size"},
		{"negative smartphones", Profile{HouseholdSize: 2, NumSmartphones: -1}, "num_smartphones"},
		{"negative computers", Profile{HouseholdSize: 2, NumComputers: -1}, "num_computers"},
		{"size reported before counts", Profile{HouseholdSize: 0, NumComputers: -1, NumSmartphones: -1}, "household_size"},
		{"smartphones reported before computers", Profile{HouseholdSize: 1, NumComputers: -1, NumSmartphones: -1}, "num_smartphones"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.profile)
			if err == nil {
				t.Fatalf("Compute() expected error, got result %+v", got)
			}
			if !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("expected ErrInvalidProfile, got %v", err)
			}

			var ipe *InvalidProfileError
			if !errors.As(err, &ipe) {
				t.Fatalf("expected *InvalidProfileError, got %T", err)
			}
			if ipe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ipe.Field, tt.wantField)
			}
			if got != (Result{}) {
				t.Errorf("expected zero result on error, got %+v", got)
			}
		})
	}
}

func TestCompute_DevicesWithoutInternetAllowed(t *testing.T) {
	_, err := Compute(Profile{
		HasComputer:    true,
		NumComputers:   3,
		NumSmartphones: 2,
		HouseholdSize:  2,
	})
	if err != nil {
		t.Fatalf("devices without internet should be valid, got %v", err)
	}
}

// profiles enumerates a grid of valid inputs
func profiles() []Profile {
	var out []Profile
	for _, internet := range []bool{false, true} {
		for _, computer := range []bool{false, true} {
			for _, phone := range []bool{false, true} {
				for nc := 0; nc <= 4; nc++ {
					for np := 0; np <= 4; np++ {
						for size := 1; size <= 6; size++ {
							out = append(out, Profile{
								HasInternetAccess: internet,
								HasComputer:       computer,
								HasSmartphone:     phone,
								NumComputers:      nc,
								NumSmartphones:    np,
								HouseholdSize:     size,
							})
						}
					}
				}
			}
		}
	}
	return out
}

func TestCompute_ScoreRange(t *testing.T) {
	for _, p := range profiles() {
		r, err := Compute(p)
		if err != nil {
			t.Fatalf("Compute(%+v) error = %v", p, err)
		}
		if r.Score < 0 || r.Score > 100 {
			t.Errorf("Compute(%+v) score %v out of range", p, r.Score)
		}
	}
}

func TestCompute_Monotonic(t *testing.T) {
	score := func(p Profile) float64 {
		t.Helper()
		r, err := Compute(p)
		if err != nil {
			t.Fatalf("Compute(%+v) error = %v", p, err)
		}
		return r.Score
	}

	for _, p := range profiles() {
		base := score(p)

		withInternet := p
		withInternet.HasInternetAccess = true
		if s := score(withInternet); s+epsilon < base {
			t.Errorf("adding internet decreased score: %+v %v -> %v", p, base, s)
		}

		moreComputers := p
		moreComputers.NumComputers++
		if s := score(moreComputers); s+epsilon < base {
			t.Errorf("adding a computer decreased score: %+v %v -> %v", p, base, s)
		}

		morePhones := p
		morePhones.NumSmartphones++
		if s := score(morePhones); s+epsilon < base {
			t.Errorf("adding a smartphone decreased score: %+v %v -> %v", p, base, s)
		}

		withComputer := p
		withComputer.HasComputer = true
		if s := score(withComputer); s+epsilon < base {
			t.Errorf("setting has_computer decreased score: %+v %v -> %v", p, base, s)
		}

		withPhone := p
		withPhone.HasSmartphone = true
		if s := score(withPhone); s+epsilon < base {
			t.Errorf("setting has_smartphone decreased score: %+v %v -> %v", p, base, s)
		}
	}
}

func TestCompute_GeoTypeDoesNotAffectScore(t *testing.T) {
	p := Profile{HasInternetAccess: true, NumSmartphones: 1, HouseholdSize: 3}
	var first *Result
	for _, g := range []GeoType{GeoUrban, GeoRural, GeoMetro, GeoInformal, "unknown", ""} {
		p.GeoType = g
		r, err := Compute(p)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if first == nil {
			first = &r
			continue
		}
		if r != *first {
			t.Errorf("geo_type %q changed result: %+v vs %+v", g, r, *first)
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	p := Profile{HasInternetAccess: true, HasComputer: true, NumComputers: 2, NumSmartphones: 1, HouseholdSize: 5}
	first, err := Compute(p)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	var wg sync.WaitGroup
	results := make([]Result, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Compute(p)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != first {
			t.Errorf("call %d returned %+v, want %+v", i, r, first)
		}
	}
}

func TestCategorize_Boundaries(t *testing.T) {
	c := Default()
	tests := []struct {
		score float64
		want  Category
	}{
		{0, CategoryLow},
		{39.99, CategoryLow},
		{40, CategoryMedium},
		{55, CategoryMedium},
		{69.99, CategoryMedium},
		{70, CategoryHigh},
		{100, CategoryHigh},
	}

	for _, tt := range tests {
		if got := c.Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestCalculator_ScoreOnThreshold(t *testing.T) {
	// Internet alone is worth exactly half of the total weight
	c, err := NewCalculator(Weights{Internet: 1, Computers: 0.5, Smartphones: 0.5}, Thresholds{Medium: 25, High: 50})
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}

	r, err := c.Compute(Profile{HasInternetAccess: true, HouseholdSize: 2})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if r.Score != 50 {
		t.Fatalf("Score = %v, want 50", r.Score)
	}
	if r.Category != CategoryHigh {
		t.Errorf("score on the high threshold should be high, got %q", r.Category)
	}
}

func TestNewCalculator_Validation(t *testing.T) {
	tests := []struct {
		name       string
		weights    Weights
		thresholds Thresholds
		wantErr    bool
	}{
		{"defaults", DefaultWeights, DefaultThresholds, false},
		{"negative weight", Weights{Internet: -1, Computers: 1}, DefaultThresholds, true},
		{"all zero", Weights{}, DefaultThresholds, true},
		{"NaN weight", Weights{Internet: math.NaN()}, DefaultThresholds, true},
		{"zero medium", DefaultWeights, Thresholds{Medium: 0, High: 70}, true},
		{"medium above high", DefaultWeights, Thresholds{Medium: 80, High: 70}, true},
		{"high above 100", DefaultWeights, Thresholds{Medium: 40, High: 120}, true},
		{"equal thresholds", DefaultWeights, Thresholds{Medium: 50, High: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCalculator(tt.weights, tt.thresholds)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrInvalidWeights) {
					t.Errorf("expected ErrInvalidWeights, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c == nil {
				t.Fatal("expected calculator")
			}
		})
	}
}

func TestGeoType_Valid(t *testing.T) {
	for _, g := range []GeoType{GeoUrban, GeoRural, GeoMetro, GeoInformal} {
		if !g.Valid() {
			t.Errorf("%q should be valid", g)
		}
	}
	for _, g := range []GeoType{"", "suburban", "URBAN"} {
		if g.Valid() {
			t.Errorf("%q should be invalid", g)
		}
	}
}
