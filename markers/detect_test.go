// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package markers

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"
)

const sampleReport = `Lipid Panel
Total Cholesterol: 245 mg/dL (H)
HDL Cholesterol: 38 mg/dL (L)
LDL Cholesterol: 160 mg/dL
Triglycerides: 180 mg/dL
Glucose (fasting): 92 mg/dL
TSH 2.1 uIU/mL
Ferritin: 12 ng/mL
Magnesium: 1.5 mg/dL normal range: 1.7-2.2
Zorbonium: 42 mg/dL`

func TestDetectLDLHigh(t *testing.T) {
	t.Parallel()

	result := Detect("LDL: 150 mg/dL")
	if result.Len() != 1 {
		t.Fatalf("expected one record, got %+v", result.Markers)
	}

	rec := result.Markers[0]
	if rec.Name != "LDL" || rec.Value != 150 || rec.Unit != UnitMgDL || rec.Status != StatusHigh {
		t.Fatalf("unexpected record %+v", rec)
	}

	if rec.NormalRange.Min != nil || rec.NormalRange.Max == nil || *rec.NormalRange.Max != 100 {
		t.Fatalf("expected range {max:100}, got %s", rec.NormalRange)
	}

	if rec.RangeConfidence != ConfidenceCatalog {
		t.Fatalf("expected catalog confidence, got %s", rec.RangeConfidence)
	}

	if rec.Recommendation == "" {
		t.Fatalf("expected a recommendation for a high value")
	}

	if !strings.Contains(rec.RawText, "LDL: 150 mg/dL") {
		t.Fatalf("expected raw text context, got %q", rec.RawText)
	}
}

func TestDetectLDLNormal(t *testing.T) {
	t.Parallel()

	result := Detect("LDL: 90 mg/dL")
	if result.Len() != 1 {
		t.Fatalf("expected one record, got %+v", result.Markers)
	}

	rec := result.Markers[0]
	if rec.Status != StatusNormal || rec.Recommendation != "" || rec.Severity != SeverityNone {
		t.Fatalf("expected normal record without recommendation, got %+v", rec)
	}
}

func TestDetectNoMarkers(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"Completely unrelated text", "", "   \n\t", "LDL: " + strings.Repeat("9", 400) + " mg/dL"} {
		if result := Detect(text); result.Len() != 0 {
			t.Fatalf("expected no markers for %q, got %+v", text, result.Markers)
		}
	}
}

func TestDetectDeduplicatesCholesterol(t *testing.T) {
	t.Parallel()

	result := Detect("Total Cholesterol: 210 mg/dL\nCholesterol: 210")
	if result.Len() != 1 {
		t.Fatalf("expected a single cholesterol record, got %+v", result.Markers)
	}

	if result.Markers[0].Name != "Total Cholesterol" {
		t.Fatalf("expected canonical name, got %q", result.Markers[0].Name)
	}
}

func TestDetectUnknownMarker(t *testing.T) {
	t.Parallel()

	result := Detect("Zorbonium: 42 mg/dL")
	if result.Len() != 1 {
		t.Fatalf("expected one record, got %+v", result.Markers)
	}

	rec := result.Markers[0]
	if rec.Name != "ZORBONIUM" || rec.Value != 42 || rec.RangeConfidence != ConfidenceHeuristic {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestDetectUnitAtSentenceEnd(t *testing.T) {
	t.Parallel()

	result := Detect("Sodium 125 mmol/L.")
	if result.Len() != 1 {
		t.Fatalf("expected one record, got %+v", result.Markers)
	}

	rec := result.Markers[0]
	if rec.Unit != UnitMmolL || rec.Status != StatusLow {
		t.Fatalf("expected low sodium in mmol/L, got %+v", rec)
	}

	if *rec.NormalRange.Min != 135 || *rec.NormalRange.Max != 145 || rec.RangeConfidence != ConfidenceHeuristic {
		t.Fatalf("expected heuristic 135-145, got %s (%s)", rec.NormalRange, rec.RangeConfidence)
	}
}

func TestDetectUnrecognisedUnitUsesNamedRange(t *testing.T) {
	t.Parallel()

	result := Detect("Sodium 125 mEq/kg")
	if result.Len() != 1 {
		t.Fatalf("expected one record, got %+v", result.Markers)
	}

	rec := result.Markers[0]
	if rec.NormalRange.Min == nil || *rec.NormalRange.Min != 135 || rec.Status != StatusLow {
		t.Fatalf("expected the named sodium range, got %+v", rec)
	}
}

func TestDetectDropsTruncatedValues(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"Glucose: 5,6 mmol/L",
		"ldl: 1e5 mg/dl",
		"LDL: 1.2.3 mg/dL",
		"Zorbonium: 3e-2 mg/dL",
	} {
		if result := Detect(text); result.Len() != 0 {
			t.Fatalf("expected no records for %q, got %+v", text, result.Markers)
		}
	}

	rec := Detect("Glucose: 95. Fasting sample").Markers
	if len(rec) != 1 || rec[0].Value != 95 {
		t.Fatalf("expected a sentence period not to truncate the value, got %+v", rec)
	}
}

func TestDetectExplicitRangeOverride(t *testing.T) {
	t.Parallel()

	result := Detect("Magnesium: 1.5 mg/dL normal range: 1.7-2.2")
	if result.Len() != 1 {
		t.Fatalf("expected one record, got %+v", result.Markers)
	}

	rec := result.Markers[0]
	if rec.RangeConfidence != ConfidenceDeclared {
		t.Fatalf("expected declared range, got %s", rec.RangeConfidence)
	}

	if *rec.NormalRange.Min != 1.7 || *rec.NormalRange.Max != 2.2 {
		t.Fatalf("expected 1.7-2.2, got %s", rec.NormalRange)
	}

	if rec.Status != StatusLow {
		t.Fatalf("expected low, got %s", rec.Status)
	}
}

func TestDetectSeverity(t *testing.T) {
	t.Parallel()

	if rec := Detect("LDL: 190 mg/dL").Markers[0]; rec.Severity != SeveritySevere {
		t.Fatalf("expected severe at 190, got %q", rec.Severity)
	}

	if rec := Detect("LDL: 110 mg/dL").Markers[0]; rec.Severity != SeverityMild {
		t.Fatalf("expected mild at 110, got %q", rec.Severity)
	}
}

func TestDetectSampleReport(t *testing.T) {
	t.Parallel()

	result := Detect(sampleReport)

	want := []struct {
		name   string
		status Status
	}{
		{"Total Cholesterol", StatusHigh},
		{"HDL", StatusLow},
		{"LDL", StatusHigh},
		{"Triglycerides", StatusHigh},
		{"Glucose", StatusNormal},
		{"TSH", StatusNormal},
		{"Ferritin", StatusLow},
		{"MAGNESIUM", StatusLow},
		{"ZORBONIUM", StatusNormal},
	}

	if result.Len() != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), result.Len(), result.Markers)
	}

	for i, w := range want {
		rec := result.Markers[i]
		if rec.Name != w.name || rec.Status != w.status {
			t.Fatalf("record %d: expected %s %s, got %s %s", i, w.name, w.status, rec.Name, rec.Status)
		}
	}

	if got := len(result.Abnormal()); got != 6 {
		t.Fatalf("expected 6 abnormal records, got %d", got)
	}

	if _, ok := result.Find("tsh"); !ok {
		t.Fatalf("expected Find to be case-insensitive")
	}
}

func TestDetectIdempotent(t *testing.T) {
	t.Parallel()

	first := Detect(sampleReport)
	second := Detect(sampleReport)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results across runs")
	}
}

func TestDetectConcurrent(t *testing.T) {
	t.Parallel()

	detector := NewDetector(DefaultCatalog())
	want := detector.Detect(sampleReport)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := detector.Detect(sampleReport); !reflect.DeepEqual(got, want) {
				t.Errorf("expected concurrent calls to agree")
			}
		}()
	}

	wg.Wait()
}

func TestDetectRecordsDoNotShareRanges(t *testing.T) {
	t.Parallel()

	first := Detect("LDL: 150 mg/dL")
	*first.Markers[0].NormalRange.Max = 1

	second := Detect("LDL: 150 mg/dL")
	if *second.Markers[0].NormalRange.Max != 100 {
		t.Fatalf("expected catalog range to be unaffected by record mutation")
	}
}

func TestDetectorCustomCatalog(t *testing.T) {
	t.Parallel()

	cat, err := NewCatalogBuilder().Add(MarkerDefinition{
		Name:     "Zorbonium",
		Patterns: []string{`zorbonium\s*:\s*(\d+(?:\.\d+)?)\s*(mg/dl)?`},
		Range:    Between(10, 20, UnitMgDL),
	}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	store := NewCatalogStore(DefaultCatalog())
	detector := NewDetector(nil, WithStore(store))

	if rec := detector.Detect("Zorbonium: 42 mg/dL").Markers[0]; rec.RangeConfidence != ConfidenceHeuristic {
		t.Fatalf("expected heuristic before swap, got %s", rec.RangeConfidence)
	}

	if _, err := store.Swap(cat); err != nil {
		t.Fatalf("Swap failed: %v", err)
	}

	rec := detector.Detect("Zorbonium: 42 mg/dL").Markers[0]
	if rec.Name != "Zorbonium" || rec.RangeConfidence != ConfidenceCatalog || rec.Status != StatusHigh {
		t.Fatalf("expected catalog classification after swap, got %+v", rec)
	}
}

func TestRecordJSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(Detect("LDL: 90 mg/dL").Markers[0])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	body := string(raw)
	for _, want := range []string{`"name":"LDL"`, `"normal_range":{"max":100,"unit":"mg/dL"}`, `"range_confidence":"catalog"`, `"recommendation":""`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}

	if strings.Contains(body, `"severity"`) {
		t.Fatalf("expected severity to be omitted for normal records, got %s", body)
	}
}
