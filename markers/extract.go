/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"math"
	"strconv"
	"strings"
)

// ExtractCatalog runs every catalog pattern over text and returns the raw
// matches in catalog order. Offsets refer to Normalize(text).
func ExtractCatalog(cat *Catalog, text string) []RawMatch {
	return extractCatalog(cat, newDocument(text))
}

func extractCatalog(cat *Catalog, doc document) []RawMatch {
	var out []RawMatch

	for _, def := range cat.defs {
		out = append(out, matchDefinition(def, doc)...)
	}

	return out
}

// matchDefinition returns the hits of the first pattern that produces any.
// Later patterns are noisier and would only re-match the same mentions.
func matchDefinition(def *MarkerDefinition, doc document) []RawMatch {
	for _, re := range def.compiled {
		var hits []RawMatch

		for _, loc := range re.FindAllStringSubmatchIndex(doc.lower, -1) {
			start, end := loc[0], loc[1]
			if excluded(doc.lower[:start], def.Excludes) {
				continue
			}

			raw := doc.lower[loc[2]:loc[3]]

			if valueContinues(doc.lower, loc[3]) {
				logger.Debug("Dropping truncated marker value", "marker", def.Name, "raw", raw)
				continue
			}

			value, err := parseValue(def.Name, raw)
			if err != nil {
				logger.Debug("Dropping unparseable marker value", "marker", def.Name, "raw", raw, "error", err)
				continue
			}

			unit := def.Range.Unit
			if len(loc) >= 6 && loc[4] >= 0 {
				unit = CanonicalUnit(doc.lower[loc[4]:loc[5]])
			}

			hits = append(hits, RawMatch{
				Name:       def.Name,
				Mention:    mentionText(doc.lower[start:loc[2]]),
				Value:      value,
				Unit:       unit,
				Context:    doc.snippet(start, end),
				Pass:       PassCatalog,
				Start:      start,
				End:        end,
				Definition: def,
			})
		}

		if len(hits) > 0 {
			return hits
		}
	}

	return nil
}

// excluded reports whether the text before a match ends with one of the
// exclusion prefixes. A trailing space in an exclusion matches any run of
// whitespace.
func excluded(before string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}

	if len(before) > 48 {
		before = before[len(before)-48:]
	}

	trimmed := strings.TrimRight(before, " \t\r\n")
	spaced := len(trimmed) < len(before)

	for _, ex := range excludes {
		if strings.HasSuffix(before, ex) {
			return true
		}

		if spaced && strings.HasSuffix(ex, " ") && strings.HasSuffix(trimmed, strings.TrimRight(ex, " ")) {
			return true
		}
	}

	return false
}

// mentionText strips separators and any parenthesised note from the name
// portion of a match.
func mentionText(s string) string {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}

	return strings.Join(strings.Fields(strings.Trim(s, " \t\r\n:=-")), " ")
}

// valueContinues reports whether the number ending at end runs on past the
// match, as in a decimal comma ("5,6"), a second decimal point or an exponent
// ("1e5"). Such a value was cut short and cannot be trusted.
func valueContinues(s string, end int) bool {
	if end >= len(s) {
		return false
	}

	c := s[end]
	if isDigit(c) {
		return true
	}

	if end+1 >= len(s) {
		return false
	}

	next := s[end+1]

	switch c {
	case '.', ',':
		return isDigit(next)
	case 'e':
		if next == '+' || next == '-' {
			return end+2 < len(s) && isDigit(s[end+2])
		}

		return isDigit(next)
	}

	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseValue(marker, raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Marker: marker, Raw: raw, Err: err}
	}

	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, &ParseError{Marker: marker, Raw: raw, Err: ErrNonFiniteValue}
	}

	return value, nil
}
