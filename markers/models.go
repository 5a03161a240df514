/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"regexp"
	"strings"
)

// Category groups catalog markers by lab panel
type Category string

// Category values represent the panels covered by the built-in catalog.
const (
	CategoryBloodChemistry   Category = "Blood Chemistry"
	CategoryLipidPanel       Category = "Lipid Panel"
	CategoryBloodCounts      Category = "Complete Blood Count"
	CategoryThyroid          Category = "Thyroid Function"
	CategoryLiverFunction    Category = "Liver Function"
	CategoryKidneyFunction   Category = "Kidney Function"
	CategoryVitaminsMinerals Category = "Vitamins & Minerals"
	CategoryInflammatory     Category = "Inflammatory Markers"
	CategoryCardiac          Category = "Cardiac Markers"
)

// Status is the classification of a value against its normal range
type Status string

// Status values. StatusUnknown is only produced when no bound could be resolved.
const (
	StatusNormal  Status = "normal"
	StatusLow     Status = "low"
	StatusHigh    Status = "high"
	StatusUnknown Status = "unknown"
)

// RangeConfidence records which resolution step produced a normal range
type RangeConfidence string

// RangeConfidence values, from most to least authoritative.
const (
	ConfidenceDeclared  RangeConfidence = "declared"
	ConfidenceCatalog   RangeConfidence = "catalog"
	ConfidenceHeuristic RangeConfidence = "heuristic"
)

// Severity buckets the relative deviation of an abnormal value
type Severity string

// Severity values. Normal and unknown records carry no severity.
const (
	SeverityNone     Severity = ""
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Pass identifies the detection pass that produced a raw match
type Pass string

// Pass values.
const (
	PassCatalog  Pass = "catalog"
	PassFallback Pass = "fallback"
)

// NormalRange is a reference interval. Either bound may be absent.
type NormalRange struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Unit string   `json:"unit,omitempty"`
}

// HasBounds reports whether at least one bound is known.
func (r NormalRange) HasBounds() bool {
	return r.Min != nil || r.Max != nil
}

// String renders the range the way lab reports print it.
func (r NormalRange) String() string {
	var b strings.Builder

	switch {
	case r.Min != nil && r.Max != nil:
		b.WriteString(formatNumber(*r.Min) + "-" + formatNumber(*r.Max))
	case r.Min != nil:
		b.WriteString(">" + formatNumber(*r.Min))
	case r.Max != nil:
		b.WriteString("<" + formatNumber(*r.Max))
	default:
		return ""
	}

	if r.Unit != "" {
		b.WriteString(" " + r.Unit)
	}

	return b.String()
}

// clone returns a copy that shares no pointers with r.
func (r NormalRange) clone() NormalRange {
	out := NormalRange{Unit: r.Unit}
	if r.Min != nil {
		out.Min = ptr(*r.Min)
	}
	if r.Max != nil {
		out.Max = ptr(*r.Max)
	}

	return out
}

// Between builds a range with both bounds.
func Between(lo, hi float64, unit string) NormalRange {
	return NormalRange{Min: ptr(lo), Max: ptr(hi), Unit: unit}
}

// AtLeast builds a range with only a lower bound.
func AtLeast(lo float64, unit string) NormalRange {
	return NormalRange{Min: ptr(lo), Unit: unit}
}

// AtMost builds a range with only an upper bound.
func AtMost(hi float64, unit string) NormalRange {
	return NormalRange{Max: ptr(hi), Unit: unit}
}

// ptr is a helper to create pointers to float64 literals
func ptr(f float64) *float64 {
	return &f
}

// MarkerDefinition describes one known marker. Definitions are immutable once
// a catalog has been built from them.
type MarkerDefinition struct {
	Name     string
	Category Category
	Aliases  []string
	// Patterns are tried in order, most specific first. Each pattern must
	// capture the value in group 1 and may capture the unit in group 2.
	Patterns []string
	Range    NormalRange
	// Excludes lists text that, when it immediately precedes a match,
	// disqualifies the mention (e.g. "hdl " before "cholesterol").
	Excludes []string
	// UnitRanges holds declared ranges for alternative units, keyed by the
	// canonical unit spelling.
	UnitRanges map[string]NormalRange

	compiled []*regexp.Regexp
}

// RangeFor returns the declared range for unit. An empty unit selects the
// primary range; a unit the definition does not know reports false.
func (d *MarkerDefinition) RangeFor(unit string) (NormalRange, bool) {
	if unit == "" || strings.EqualFold(unit, d.Range.Unit) {
		return d.Range, true
	}

	for u, r := range d.UnitRanges {
		if strings.EqualFold(u, unit) {
			return r, true
		}
	}

	return NormalRange{}, false
}

// Names returns the canonical name followed by every alias.
func (d *MarkerDefinition) Names() []string {
	names := make([]string, 0, len(d.Aliases)+1)
	names = append(names, d.Name)

	return append(names, d.Aliases...)
}

// RawMatch is a candidate marker mention before range resolution.
type RawMatch struct {
	Name string
	// Mention is the marker name as written in the text, lower-cased.
	Mention     string
	Value       float64
	Unit        string
	UnitGuessed bool
	Context     string
	Pass        Pass
	// Start and End are byte offsets of the mention in the normalized text.
	Start int
	End   int
	// Definition is set for catalog matches only.
	Definition *MarkerDefinition
}

// HealthMarkerRecord is a fully classified marker. Records are values and are
// never mutated after Detect returns them.
type HealthMarkerRecord struct {
	Name            string          `json:"name"`
	Value           float64         `json:"value"`
	Unit            string          `json:"unit"`
	Status          Status          `json:"status"`
	NormalRange     NormalRange     `json:"normal_range"`
	RangeConfidence RangeConfidence `json:"range_confidence"`
	Severity        Severity        `json:"severity,omitempty"`
	RawText         string          `json:"raw_text"`
	Recommendation  string          `json:"recommendation"`
}

// IsAbnormal reports whether the record is outside its range.
func (r HealthMarkerRecord) IsAbnormal() bool {
	return r.Status == StatusLow || r.Status == StatusHigh
}

// DetectionResult is the ordered output of Detect, in first-occurrence order.
type DetectionResult struct {
	Markers []HealthMarkerRecord `json:"markers"`
}

// Len returns the number of detected markers.
func (d DetectionResult) Len() int {
	return len(d.Markers)
}

// Abnormal returns the low and high records, keeping order.
func (d DetectionResult) Abnormal() []HealthMarkerRecord {
	var out []HealthMarkerRecord

	for _, m := range d.Markers {
		if m.IsAbnormal() {
			out = append(out, m)
		}
	}

	return out
}

// Find returns the record with the given name, compared case-insensitively.
func (d DetectionResult) Find(name string) (HealthMarkerRecord, bool) {
	for _, m := range d.Markers {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}

	return HealthMarkerRecord{}, false
}
