/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/labmarkers/markers"
)

// ReportSummary is a stored report without its markers.
type ReportSummary struct {
	ID            uuid.UUID  `db:"id"`
	Title         string     `db:"title"`
	SourceFormat  string     `db:"source_format"`
	MarkerCount   int        `db:"marker_count"`
	AbnormalCount int        `db:"abnormal_count"`
	CollectedOn   *time.Time `db:"collected_on"`
	CreatedAt     time.Time  `db:"created_at"`
}

// Date is the day the sample was collected when the report states it, else
// the day it was stored.
func (r ReportSummary) Date() time.Time {
	if r.CollectedOn != nil {
		return *r.CollectedOn
	}

	return r.CreatedAt
}

// Report is a stored report with the text it was detected from and the
// records in detection order.
type Report struct {
	ReportSummary

	RawText string
	Markers []markers.HealthMarkerRecord
}

// Result rebuilds the detection result that was stored.
func (r *Report) Result() markers.DetectionResult {
	return markers.DetectionResult{Markers: r.Markers}
}

// CreateReportInput holds the data to store a detection run.
type CreateReportInput struct {
	Title        string
	SourceFormat string
	RawText      string
	CollectedOn  *time.Time
	Result       markers.DetectionResult
}

// MarkerHistoryPoint is one stored reading of a marker across reports.
type MarkerHistoryPoint struct {
	ReportID    uuid.UUID
	ReportTitle string
	Date        time.Time
	Value       float64
	Unit        string
	Status      markers.Status
	NormalRange markers.NormalRange
}

// MarkerDefinitionRow mirrors a catalog definition as stored in
// marker_definitions.
type MarkerDefinitionRow struct {
	Name      string           `db:"name"`
	Category  markers.Category `db:"category"`
	Aliases   []string         `db:"aliases"`
	RangeMin  *float64         `db:"range_min"`
	RangeMax  *float64         `db:"range_max"`
	RangeUnit string           `db:"range_unit"`
	UpdatedAt time.Time        `db:"updated_at"`
}

// Range returns the stored declared range.
func (d MarkerDefinitionRow) Range() markers.NormalRange {
	return markers.NormalRange{Min: d.RangeMin, Max: d.RangeMax, Unit: d.RangeUnit}
}
