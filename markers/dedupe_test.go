// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package markers

import "testing"

func fallbackHit(name string, start, end int) RawMatch {
	return RawMatch{
		Name:    name,
		Mention: Normalize(name),
		Value:   1,
		Unit:    UnitMgDL,
		Pass:    PassFallback,
		Start:   start,
		End:     end,
	}
}

func catalogHit(t *testing.T, name, mention string, start, end int) RawMatch {
	t.Helper()

	def, ok := DefaultCatalog().Lookup(name)
	if !ok {
		t.Fatalf("unknown catalog marker %q", name)
	}

	return RawMatch{
		Name:       def.Name,
		Mention:    mention,
		Value:      1,
		Unit:       def.Range.Unit,
		Pass:       PassCatalog,
		Start:      start,
		End:        end,
		Definition: def,
	}
}

func names(matches []RawMatch) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Name)
	}

	return out
}

func TestMergeDropsClaimedWords(t *testing.T) {
	t.Parallel()

	cat := DefaultCatalog()
	merged := Merge(cat,
		[]RawMatch{catalogHit(t, "Total Cholesterol", "total cholesterol", 0, 28)},
		[]RawMatch{
			fallbackHit("FASTING CHOLESTEROL", 40, 60),
			fallbackHit("TOTAL PROTEIN", 70, 85),
			fallbackHit("ZINC", 90, 100),
			fallbackHit("ZINC", 110, 120),
		},
	)

	got := names(merged)
	want := []string{"Total Cholesterol", "ZINC"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMergeNoSharedNameWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want []string
	}{
		{"Total Cholesterol: 210 mg/dL\nTotal Protein: 7.0 g/dL", []string{"Total Cholesterol"}},
		{"Vitamin D: 45 ng/mL\nVitamin K: 1.0 ng/mL", []string{"Vitamin D"}},
		{"Zorbonium: 42 mg/dL\nSerum Zorbonium: 40 mg/dL", []string{"ZORBONIUM"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			result := Detect(tt.text)

			got := make([]string, 0, result.Len())
			for _, m := range result.Markers {
				got = append(got, m.Name)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}

			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}

			seen := make(map[string]string)
			for _, name := range got {
				for _, w := range claimWords(name) {
					if other, ok := seen[w]; ok {
						t.Fatalf("records %q and %q share the word %q", other, name, w)
					}

					seen[w] = name
				}
			}
		})
	}
}

func TestMergePromotesAliases(t *testing.T) {
	t.Parallel()

	hit := fallbackHit("LDL", 0, 7)
	hit.UnitGuessed = true
	hit.Unit = UnitPercent

	merged := Merge(DefaultCatalog(), nil, []RawMatch{hit})
	if len(merged) != 1 {
		t.Fatalf("expected one match, got %d", len(merged))
	}

	m := merged[0]
	if m.Name != "LDL" || m.Definition == nil || m.Unit != UnitMgDL || m.UnitGuessed {
		t.Fatalf("expected promotion to catalog LDL, got %+v", m)
	}
}

func TestMergeOneHitPerDefinition(t *testing.T) {
	t.Parallel()

	merged := Merge(DefaultCatalog(),
		[]RawMatch{
			catalogHit(t, "LDL", "ldl", 0, 10),
			catalogHit(t, "LDL", "ldl", 20, 30),
			catalogHit(t, "HDL", "hdl", 5, 15),
			catalogHit(t, "HDL", "hdl", 40, 50),
		},
		[]RawMatch{fallbackHit("LDL CHOLESTEROL", 60, 80), fallbackHit("ZORBONIUM", 8, 18)},
	)

	got := names(merged)
	want := []string{"LDL", "HDL"}

	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if merged[1].Start != 40 {
		t.Fatalf("expected overlapping HDL hit to be skipped, got start %d", merged[1].Start)
	}
}

func TestMergeOrdersByOccurrence(t *testing.T) {
	t.Parallel()

	merged := Merge(DefaultCatalog(),
		[]RawMatch{catalogHit(t, "Glucose", "glucose", 50, 60)},
		[]RawMatch{fallbackHit("ZORBONIUM", 0, 10)},
	)

	if len(merged) != 2 || merged[0].Name != "ZORBONIUM" {
		t.Fatalf("expected text order, got %v", names(merged))
	}
}
