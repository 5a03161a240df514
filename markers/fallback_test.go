// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package markers

import "testing"

func TestExtractFallbackShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		name    string
		value   float64
		unit    string
		guessed bool
	}{
		{"Zorbonium: 42 mg/dL", "ZORBONIUM", 42, UnitMgDL, false},
		{"Zinc = 85 ug/dL", "ZINC", 85, UnitUgDL, false},
		{"Selenium 110", "SELENIUM", 110, UnitMgDL, true},
		{"Transferrin saturation 18 %", "TRANSFERRIN SATURATION", 18, UnitPercent, false},
		{"Mean cell volume 88 fL", "MEAN CELL VOLUME", 88, UnitFL, false},
		{"Sodium 125 mmol/L.", "SODIUM", 125, UnitMmolL, false},
		{"Zorbonium: 42 mg/dL.", "ZORBONIUM", 42, UnitMgDL, false},
		{"Zorbonium: 42 mL/min/1.73m2", "ZORBONIUM", 42, UnitEGFR, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			hits := ExtractFallback(tt.text)
			if len(hits) != 1 {
				t.Fatalf("expected one hit, got %+v", hits)
			}

			h := hits[0]
			if h.Name != tt.name || h.Value != tt.value || h.Unit != tt.unit || h.UnitGuessed != tt.guessed {
				t.Fatalf("unexpected hit %+v", h)
			}

			if h.Pass != PassFallback || h.Definition != nil {
				t.Fatalf("expected fallback pass without definition, got %+v", h)
			}
		})
	}
}

func TestExtractFallbackRejects(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"Normal range: 70",
		"Reference 100",
		"Page 2",
		"Ab: 5",
		"Test result 12",
		"Collected on 12 March",
		"Zorbonium: 5,6 mg/dL",
		"Zorbonium: 1e5 mg/dL",
		"Zorbonium: 1.2.3 mg/dL",
		"Completely unrelated text",
		"",
	} {
		if hits := ExtractFallback(text); len(hits) != 0 {
			t.Fatalf("expected no hits for %q, got %+v", text, hits)
		}
	}
}

func TestExtractFallbackTrimsName(t *testing.T) {
	t.Parallel()

	hits := ExtractFallback("Vitamin D 45 ng/mL mg dl zinc 70")
	if len(hits) != 2 {
		t.Fatalf("expected two hits, got %+v", hits)
	}

	if hits[1].Name != "ZINC" {
		t.Fatalf("expected leading unit words to be trimmed, got %q", hits[1].Name)
	}

	text := Normalize("Vitamin D 45 ng/mL mg dl zinc 70")
	if text[hits[1].Start:hits[1].Start+4] != "zinc" {
		t.Fatalf("expected start offset at the kept name, got %d", hits[1].Start)
	}
}

func TestGuessUnit(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"hemoglobin a":    UnitGDL,
		"hba1c":           UnitPercent,
		"fasting glucose": UnitMgDL,
		"vitamin k":       UnitNgML,
		"total protein":   UnitGDL,
		"lipase":          UnitUL,
		"creatine kinase": UnitUL,
		"aldolase":        UnitUL,
		"tsh":             UnitUIUmL,
		"zorbonium":       UnitMgDL,
	}

	for name, want := range tests {
		if got := guessUnit(name); got != want {
			t.Fatalf("guessUnit(%q) = %q, want %q", name, got, want)
		}
	}
}
