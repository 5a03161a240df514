/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import "math"

// Severity thresholds, in percent deviation from the violated bound.
const (
	moderateFrom = 20.0
	severeFrom   = 50.0
)

// Classify compares value against r. A missing bound is ignored; a range with
// no bounds at all yields StatusUnknown, never StatusNormal.
func Classify(value float64, r NormalRange) Status {
	if !r.HasBounds() {
		return StatusUnknown
	}

	if r.Min != nil && value < *r.Min {
		return StatusLow
	}

	if r.Max != nil && value > *r.Max {
		return StatusHigh
	}

	return StatusNormal
}

// Deviation returns how far value lies past the bound violated by status, as
// a percentage of that bound. It returns false for normal and unknown status.
func Deviation(value float64, r NormalRange, status Status) (float64, bool) {
	var bound *float64

	switch status {
	case StatusLow:
		bound = r.Min
	case StatusHigh:
		bound = r.Max
	}

	if bound == nil {
		return 0, false
	}

	if *bound == 0 {
		return math.Inf(1), true
	}

	return math.Abs(value-*bound) * 100 / math.Abs(*bound), true
}

// SeverityOf buckets the deviation: below 20% is mild, 20% up to but not
// including 50% is moderate, 50% and above is severe.
func SeverityOf(value float64, r NormalRange, status Status) Severity {
	dev, ok := Deviation(value, r, status)
	if !ok {
		return SeverityNone
	}

	switch {
	case dev < moderateFrom:
		return SeverityMild
	case dev < severeFrom:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}
