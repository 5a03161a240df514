// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package markers

import (
	"strings"
	"testing"
)

func TestRecommendCurated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status Status
		prefix string
	}{
		{"Ferritin", StatusLow, "Low ferritin levels indicate iron deficiency"},
		{"LDL", StatusHigh, "High cholesterol levels"},
		{"Total Cholesterol", StatusHigh, "High cholesterol levels"},
		{"HDL", StatusLow, "Low HDL cholesterol"},
		{"Glucose", StatusHigh, "High glucose levels"},
		{"TSH", StatusHigh, "High TSH levels"},
		{"TSH", StatusLow, "Low TSH levels"},
		{"Hemoglobin A1C", StatusHigh, "High HbA1c"},
		{"MAGNESIUM", StatusLow, "Low magnesium"},
		{"SERUM MAGNESIUM", StatusLow, "Low magnesium"},
	}

	for _, tt := range tests {
		got := Recommend(tt.name, 1, UnitMgDL, tt.status, SeverityMild)
		if !strings.HasPrefix(got, tt.prefix) {
			t.Fatalf("%s %s: expected %q prefix, got %q", tt.name, tt.status, tt.prefix, got)
		}
	}
}

func TestRecommendGeneric(t *testing.T) {
	t.Parallel()

	got := Recommend("ZORBONIUM", 42.5, UnitMgDL, StatusHigh, SeverityModerate)

	for _, want := range []string{"ZORBONIUM", "high", "42.5 mg/dL", "moderate", "healthcare provider"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}

	// HDL has no curated text for high values.
	if got := Recommend("HDL", 90, UnitMgDL, StatusHigh, SeveritySevere); !strings.Contains(got, "severe") {
		t.Fatalf("expected generic template for uncurated direction, got %q", got)
	}
}

func TestRecommendNormalAndUnknownAreEmpty(t *testing.T) {
	t.Parallel()

	if got := Recommend("LDL", 90, UnitMgDL, StatusNormal, SeverityNone); got != "" {
		t.Fatalf("expected empty recommendation for normal, got %q", got)
	}

	if got := Recommend("LDL", 90, UnitMgDL, StatusUnknown, SeverityNone); got != "" {
		t.Fatalf("expected empty recommendation for unknown, got %q", got)
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()

	if got := Explain("ferritin"); !strings.Contains(got, "stores iron") {
		t.Fatalf("unexpected ferritin explanation %q", got)
	}

	if got := Explain("LDL"); !strings.Contains(got, "Low-Density Lipoprotein") {
		t.Fatalf("expected LDL entry, not the cholesterol entry, got %q", got)
	}

	if got := Explain("zorbonium"); got != "" {
		t.Fatalf("expected no explanation for unknown marker, got %q", got)
	}
}
