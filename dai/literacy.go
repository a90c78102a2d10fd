// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dai

import "math"

// Literacy score components (sum to 1.0)
const (
	literacyDeviceWeight    = 0.3
	literacyUsageWeight     = 0.4
	literacyEducationWeight = 0.3

	// Daily hours at which the usage component saturates
	literacyFullUsageHours = 8.0
	maxDailyHours          = 24.0
)

// PersonUsage describes one household member's technology habits
type PersonUsage struct {
	HasOwnDevice             bool
	InternetUsageHours       float64
	UsesInternetForEducation bool
}

type LiteracyResult struct {
	Score float64
}

// Literacy computes a digital literacy score in [0, 1] for a person
func Literacy(u PersonUsage) (LiteracyResult, error) {
	h := u.InternetUsageHours
	if math.IsNaN(h) || h < 0 || h > maxDailyHours {
		return LiteracyResult{}, &InvalidProfileError{
			Field:  "internet_usage_hours",
			Reason: "must be between 0 and 24",
		}
	}

	var score float64
	if u.HasOwnDevice {
		score += literacyDeviceWeight
	}
	score += math.Min(h/literacyFullUsageHours, 1) * literacyUsageWeight
	if u.UsesInternetForEducation {
		score += literacyEducationWeight
	}

	return LiteracyResult{Score: round(clamp(score, 0, 1), 3)}, nil
}
