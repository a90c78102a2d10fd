// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package dai computes the Digital Access Index for a household.

# Index

The index combines four indicators, each in [0, 1]:

  - internet: 1 when the household has internet access
  - computers: computers per person, capped at 1
  - smartphones: smartphones per person, capped at 1
  - diversity: 1 when both device classes are owned, 0.5 for one, 0 for none

The weighted sum is normalized by the total weight and scaled to 0-100:

	result, err := dai.Compute(dai.Profile{
		HasInternetAccess: true,
		HasSmartphone:     true,
		NumSmartphones:    2,
		HouseholdSize:     4,
	})

Default weights are internet 0.40, smartphones 0.20, computers 0.15 and
diversity 0.25. Use NewCalculator to score with a different weighting.

# Categories

	score >= 70  high
	score >= 40  medium
	otherwise    low

A score sitting exactly on a threshold belongs to the higher band.

# Validation

Compute returns *InvalidProfileError when household_size < 1 or a device
count is negative. errors.Is(err, ErrInvalidProfile) matches every
validation failure; the Field names the offending JSON field.

# Digital Literacy

Literacy scores an individual in [0, 1] from device ownership (0.3),
daily internet hours (hours/8 capped, 0.4) and educational use (0.3).

All functions are pure and safe for concurrent use.
*/
package dai
