/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"regexp"
	"strings"
)

// DefaultRangeWindow is how far past a mention the resolver looks for a
// printed reference interval.
const DefaultRangeWindow = 80

const (
	rangeNum = `(\d+(?:\.\d+)?)`
	// flagPrefix skips the flag column some labs print between the value and
	// the interval.
	flagPrefix = `^\s*(?:\*|\((?:low|high|normal|[lh])\)|(?:low|high|normal|[lh])\b)?\s*`
	rangeWords = `(?:biological reference (?:range|interval)|reference (?:range|interval|values?)|` +
		`normal (?:range|values?)|ref\.? (?:range|interval)|normal|reference|ref\.?|range)`
)

var (
	adjacentInterval = regexp.MustCompile(flagPrefix + `[\(\[]?\s*` + rangeNum + `\s*(?:-|to)\s*` + rangeNum + `\s*[\)\]]?`)
	adjacentBound    = regexp.MustCompile(flagPrefix + `[\(\[]?\s*(<=?|>=?)\s*` + rangeNum + `\s*[\)\]]?`)

	labelledInterval = regexp.MustCompile(rangeWords + `\s*[:=]?\s*` + rangeNum + `\s*(?:-|to)\s*` + rangeNum)
	labelledUpper    = regexp.MustCompile(rangeWords + `\s*[:=]?\s*(?:<=?|up to|less than|below)\s*` + rangeNum)
	labelledLower    = regexp.MustCompile(rangeWords + `\s*[:=]?\s*(?:>=?|above|greater than|more than|at least)\s*` + rangeNum)
)

// heuristicRange is one row of the name-keyed fallback table. Ranges are in
// preference order; the first is used when the unit is unknown or guessed.
type heuristicRange struct {
	key    string
	ranges []NormalRange
}

// heuristicRanges covers recognised markers outside the catalog. Keys are
// matched as substrings, so longer keys come before the keys they contain.
var heuristicRanges = []heuristicRange{
	{"magnesium", []NormalRange{Between(1.7, 2.2, UnitMgDL), Between(0.7, 1.0, UnitMmolL)}},
	{"calcium", []NormalRange{Between(8.5, 10.5, UnitMgDL), Between(2.1, 2.6, UnitMmolL)}},
	{"zinc", []NormalRange{Between(60, 120, UnitUgDL), Between(9, 18, UnitUmolL)}},
	{"creatinine", []NormalRange{Between(0.6, 1.2, UnitMgDL), Between(53, 106, UnitUmolL)}},
	{"selenium", []NormalRange{Between(70, 150, UnitNgML), Between(70, 150, UnitUgL)}},
	{"copper", []NormalRange{Between(70, 140, UnitUgDL), Between(11, 22, UnitUmolL)}},
	{"potassium", []NormalRange{Between(3.5, 5.0, UnitMmolL), Between(3.5, 5.0, UnitMEqL)}},
	{"sodium", []NormalRange{Between(135, 145, UnitMmolL), Between(135, 145, UnitMEqL)}},
	{"chloride", []NormalRange{Between(98, 107, UnitMmolL), Between(98, 107, UnitMEqL)}},
	{"bicarbonate", []NormalRange{Between(22, 29, UnitMmolL), Between(22, 29, UnitMEqL)}},
	{"phosph", []NormalRange{Between(2.5, 4.5, UnitMgDL), Between(0.8, 1.5, UnitMmolL)}},
	{"albumin", []NormalRange{Between(3.5, 5.0, UnitGDL), Between(35, 50, UnitGL)}},
	{"total protein", []NormalRange{Between(6.0, 8.3, UnitGDL), Between(60, 83, UnitGL)}},
	{"globulin", []NormalRange{Between(2.0, 3.5, UnitGDL), Between(20, 35, UnitGL)}},
	{"uric acid", []NormalRange{Between(3.5, 7.2, UnitMgDL), Between(208, 428, UnitUmolL)}},
	{"cortisol", []NormalRange{Between(6, 23, UnitUgDL), Between(166, 635, UnitNmolL)}},
	{"insulin", []NormalRange{Between(2, 25, UnitUIUmL), Between(14, 174, UnitPmolL)}},
	{"ggt", []NormalRange{Between(8, 61, UnitUL), Between(8, 61, UnitIUL)}},
	{"gamma", []NormalRange{Between(8, 61, UnitUL), Between(8, 61, UnitIUL)}},
	{"ldh", []NormalRange{Between(140, 280, UnitUL), Between(140, 280, UnitIUL)}},
	{"lactate dehydrogenase", []NormalRange{Between(140, 280, UnitUL), Between(140, 280, UnitIUL)}},
	{"urea", []NormalRange{Between(15, 45, UnitMgDL), Between(2.5, 7.8, UnitMmolL)}},
	{"vitamin c", []NormalRange{Between(0.4, 2.0, UnitMgDL)}},
	{"vitamin a", []NormalRange{Between(20, 60, UnitUgDL)}},
	{"transferrin saturation", []NormalRange{Between(20, 50, UnitPercent)}},
	{"tibc", []NormalRange{Between(250, 450, UnitUgDL)}},
	{"mchc", []NormalRange{Between(32, 36, UnitGDL)}},
	{"mch", []NormalRange{Between(27, 33, UnitPg)}},
	{"mcv", []NormalRange{Between(80, 100, UnitFL)}},
	{"rdw", []NormalRange{Between(11.5, 14.5, UnitPercent)}},
	{"mpv", []NormalRange{Between(7.5, 11.5, UnitFL)}},
	{"neutrophil", []NormalRange{Between(40, 70, UnitPercent)}},
	{"lymphocyte", []NormalRange{Between(20, 40, UnitPercent)}},
	{"monocyte", []NormalRange{Between(2, 8, UnitPercent)}},
	{"eosinophil", []NormalRange{Between(1, 4, UnitPercent)}},
	{"basophil", []NormalRange{Between(0, 1, UnitPercent)}},
	{"red blood cell", []NormalRange{Between(4.2, 5.9, UnitMPerUL)}},
	{"rbc", []NormalRange{Between(4.2, 5.9, UnitMPerUL)}},
	{"apolipoprotein b", []NormalRange{AtMost(90, UnitMgDL)}},
	{"non-hdl", []NormalRange{AtMost(130, UnitMgDL)}},
	{"psa", []NormalRange{AtMost(4.0, UnitNgML)}},
	{"homocysteine", []NormalRange{Between(5, 15, UnitUmolL)}},
}

// ResolveRange returns the normal range for m and where it came from.
// nextStart bounds the search for a printed interval so that it cannot
// borrow the interval of the following marker; pass -1 for no bound.
// Offsets in m refer to Normalize(text).
func ResolveRange(text string, m RawMatch, nextStart int) (NormalRange, RangeConfidence) {
	return resolveRange(Normalize(text), m, nextStart, DefaultRangeWindow)
}

func resolveRange(lower string, m RawMatch, nextStart, window int) (NormalRange, RangeConfidence) {
	if r, ok := declaredRange(rangeWindow(lower, m.End, nextStart, window), m.Unit); ok {
		return r, ConfidenceDeclared
	}

	if m.Definition != nil {
		if r, ok := m.Definition.RangeFor(m.Unit); ok {
			return r.clone(), ConfidenceCatalog
		}
	}

	if r, ok := namedRange(m); ok {
		return r, ConfidenceHeuristic
	}

	return magnitudeRange(m.Value, m.Unit), ConfidenceHeuristic
}

// rangeWindow returns the text after a mention that may hold its interval:
// at most window bytes, never past the next candidate, and at most one line
// break in.
func rangeWindow(lower string, end, nextStart, window int) string {
	if end >= len(lower) {
		return ""
	}

	hi := min(len(lower), end+window)
	if nextStart >= 0 && nextStart < hi {
		hi = nextStart
	}

	if hi <= end {
		return ""
	}

	w := lower[end:hi]

	if first := strings.IndexByte(w, '\n'); first >= 0 {
		if second := strings.IndexByte(w[first+1:], '\n'); second >= 0 {
			w = w[:first+1+second]
		}
	}

	return w
}

func declaredRange(w, unit string) (NormalRange, bool) {
	if w == "" {
		return NormalRange{}, false
	}

	if loc := adjacentInterval.FindStringSubmatchIndex(w); loc != nil && !intervalRunsOn(w, loc) {
		sm := submatches(w, loc)
		if r, ok := interval(sm[1], sm[2], unit); ok {
			return r, true
		}
	}

	if sm := adjacentBound.FindStringSubmatch(w); sm != nil {
		if r, ok := bound(sm[1], sm[2], unit); ok {
			return r, true
		}
	}

	best, bestAt := NormalRange{}, -1

	try := func(re *regexp.Regexp, build func(sm []string, loc []int) (NormalRange, bool)) {
		loc := re.FindStringSubmatchIndex(w)
		if loc == nil || (bestAt >= 0 && loc[0] >= bestAt) {
			return
		}

		if r, ok := build(submatches(w, loc), loc); ok {
			best, bestAt = r, loc[0]
		}
	}

	try(labelledInterval, func(sm []string, loc []int) (NormalRange, bool) {
		if intervalRunsOn(w, loc) {
			return NormalRange{}, false
		}

		return interval(sm[1], sm[2], unit)
	})
	try(labelledUpper, func(sm []string, _ []int) (NormalRange, bool) { return bound("<", sm[1], unit) })
	try(labelledLower, func(sm []string, _ []int) (NormalRange, bool) { return bound(">", sm[1], unit) })

	return best, bestAt >= 0
}

// intervalRunsOn reports whether the text after an interval's upper number
// continues it: a date such as "01-12-2024" or a truncated number.
func intervalRunsOn(w string, loc []int) bool {
	end := loc[5]
	if valueContinues(w, end) {
		return true
	}

	rest := strings.TrimLeft(w[end:], " \t")

	return len(rest) >= 2 && (rest[0] == '-' || rest[0] == '/') && isDigit(rest[1])
}

func submatches(s string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}

	return out
}

func interval(loRaw, hiRaw, unit string) (NormalRange, bool) {
	lo, err := parseValue("range", loRaw)
	if err != nil {
		return NormalRange{}, false
	}

	hi, err := parseValue("range", hiRaw)
	if err != nil || lo > hi {
		return NormalRange{}, false
	}

	return Between(lo, hi, unit), true
}

func bound(op, raw, unit string) (NormalRange, bool) {
	v, err := parseValue("range", raw)
	if err != nil {
		return NormalRange{}, false
	}

	if strings.HasPrefix(op, "<") {
		return AtMost(v, unit), true
	}

	return AtLeast(v, unit), true
}

// namedRange looks the marker up in the heuristic table by substring. A
// guessed, missing or unrecognised unit takes the row's preferred range; a
// recognised unit must match one of the row's ranges.
func namedRange(m RawMatch) (NormalRange, bool) {
	name := strings.ToLower(m.Name + " " + m.Mention)

	for _, h := range heuristicRanges {
		if !strings.Contains(name, h.key) {
			continue
		}

		if m.Unit == "" || m.UnitGuessed || !knownUnit(m.Unit) {
			return h.ranges[0].clone(), true
		}

		for _, r := range h.ranges {
			if strings.EqualFold(r.Unit, m.Unit) {
				return r.clone(), true
			}
		}

		return NormalRange{}, false
	}

	return NormalRange{}, false
}

// magnitudeRange is the last resort: an order-of-magnitude band around the
// value. It carries no clinical meaning and is always reported as heuristic.
func magnitudeRange(value float64, unit string) NormalRange {
	for _, ceiling := range []float64{1, 10, 100, 1000} {
		if value < ceiling {
			return Between(0, ceiling, unit)
		}
	}

	return Between(0, value*1.5, unit)
}
