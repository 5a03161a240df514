/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"regexp"
	"strings"
)

// genericMarker matches "name: value [unit]", "name = value [unit]" and
// "name value [unit]". The name may not continue a word, a unit ("mg/dl") or a
// number, so "1.73m2" and "mg/dl 5" never start a name. A unit never ends in a
// period, so "mmol/l." at the end of a sentence captures "mmol/l".
var genericMarker = regexp.MustCompile(
	`(?:^|[^a-z/μ0-9\-])([a-z][a-z\- ]*[a-z])(?:[ \t]*[:=][ \t]*|[ \t]+)(\d+(?:\.\d+)?)` +
		`(?:[ \t]*(%|[a-zμ]+/` + unitSegment + `(?:/` + unitSegment + `)?|(?:fl|pg)\b))?`,
)

// unitSegment is one slash-separated part of a unit: alphanumeric runs joined
// by single dots, as in "1.73m2".
const unitSegment = `[a-zμ0-9]+(?:\.[a-zμ0-9]+)*`

const (
	minFallbackName  = 3
	maxFallbackWords = 4
)

// stopWords never form part of a marker name. Besides report vocabulary this
// covers the header and metadata words that precede numbers on lab forms.
var stopWords = map[string]bool{
	"normal": true, "range": true, "value": true, "values": true,
	"test": true, "tests": true, "result": true, "results": true,
	"reference": true, "ref": true, "interval": true,
	"low": true, "high": true, "flag": true,
	"page": true, "date": true, "time": true, "age": true, "dob": true,
	"year": true, "years": true, "yrs": true, "month": true, "months": true,
	"patient": true, "report": true, "sample": true, "specimen": true,
	"id": true, "no": true, "number": true, "lab": true,
	"collected": true, "received": true, "reported": true, "on": true, "at": true,
	"phone": true, "tel": true, "fax": true, "room": true, "bed": true, "ward": true,
	"of": true, "and": true, "or": true, "to": true, "the": true,
}

// unitWords are unit fragments that can end up at the front of a name run
// when a unit was written with spaces ("mg dl hdl 50").
var unitWords = map[string]bool{
	"mg": true, "dl": true, "ml": true, "g": true, "l": true, "ul": true,
	"iu": true, "u": true, "ng": true, "pg": true, "mmol": true, "umol": true,
	"μmol": true, "percent": true, "units": true, "fl": true, "hr": true, "min": true,
}

// unitGuess maps name keywords to a default unit. Order matters: "a1c" must
// win over "hemoglobin".
var unitGuess = []struct {
	keywords []string
	unit     string
}{
	{[]string{"a1c", "percent", "saturation", "hematocrit", "haematocrit"}, UnitPercent},
	{[]string{"cholesterol", "glucose", "sugar", "triglyceride", "lipid"}, UnitMgDL},
	{[]string{"vitamin", "ferritin", "folate"}, UnitNgML},
	{[]string{"hemoglobin", "haemoglobin", "protein", "albumin", "globulin"}, UnitGDL},
	{[]string{"enzyme", "transferase", "phosphatase", "kinase", "lipase", "amylase"}, UnitUL},
	{[]string{"tsh", "thyroid", "hormone"}, UnitUIUmL},
}

// ExtractFallback scans text for generic "name value unit" shapes, surfacing
// markers the catalog does not know. Offsets refer to Normalize(text).
func ExtractFallback(text string) []RawMatch {
	return extractFallback(newDocument(text))
}

func extractFallback(doc document) []RawMatch {
	var out []RawMatch

	for _, loc := range genericMarker.FindAllStringSubmatchIndex(doc.lower, -1) {
		nameStart, nameEnd := loc[2], loc[3]

		name, offset, ok := cleanFallbackName(doc.lower[nameStart:nameEnd])
		if !ok {
			continue
		}

		raw := doc.lower[loc[4]:loc[5]]

		if valueContinues(doc.lower, loc[5]) {
			logger.Debug("Dropping truncated fallback value", "name", name, "raw", raw)
			continue
		}

		value, err := parseValue(name, raw)
		if err != nil {
			logger.Debug("Dropping unparseable fallback value", "name", name, "raw", raw, "error", err)
			continue
		}

		unit, guessed := "", false
		if loc[6] >= 0 {
			unit = CanonicalUnit(doc.lower[loc[6]:loc[7]])
		} else {
			unit, guessed = guessUnit(name), true
		}

		start := nameStart + offset

		out = append(out, RawMatch{
			Name:        strings.ToUpper(name),
			Mention:     name,
			Value:       value,
			Unit:        unit,
			UnitGuessed: guessed,
			Context:     doc.snippet(start, loc[1]),
			Pass:        PassFallback,
			Start:       start,
			End:         loc[1],
		})
	}

	return out
}

// cleanFallbackName trims unit debris and filler from a captured name run and
// reports the byte offset of the kept name inside run.
func cleanFallbackName(run string) (string, int, bool) {
	spans := wordSpans(run)

	for len(spans) > 0 && unitWords[run[spans[0][0]:spans[0][1]]] {
		spans = spans[1:]
	}

	if len(spans) > maxFallbackWords {
		spans = spans[len(spans)-maxFallbackWords:]
	}

	if len(spans) == 0 {
		return "", 0, false
	}

	words := make([]string, 0, len(spans))
	for _, sp := range spans {
		w := run[sp[0]:sp[1]]
		for _, part := range strings.Split(w, "-") {
			if stopWords[part] {
				return "", 0, false
			}
		}

		words = append(words, w)
	}

	name := strings.Join(words, " ")
	if len(name) < minFallbackName {
		return "", 0, false
	}

	return name, spans[0][0], true
}

// wordSpans returns the [start, end) offsets of the space separated words in s.
func wordSpans(s string) [][2]int {
	var spans [][2]int

	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' {
			if start >= 0 {
				spans = append(spans, [2]int{start, i})
				start = -1
			}

			continue
		}

		if start < 0 {
			start = i
		}
	}

	if start >= 0 {
		spans = append(spans, [2]int{start, len(s)})
	}

	return spans
}

func guessUnit(name string) string {
	for _, g := range unitGuess {
		for _, kw := range g.keywords {
			if strings.Contains(name, kw) {
				return g.unit
			}
		}
	}

	if strings.HasSuffix(name, "ase") {
		return UnitUL
	}

	return UnitMgDL
}
