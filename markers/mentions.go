/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MentionedMarkers scans a free-form message, such as a chat question, for
// marker names. It is a plain vocabulary scan over the catalog aliases and
// the heuristic table keys, not a run of the extraction pipeline. Catalog
// markers are returned by canonical name in catalog order, followed by other
// recognised markers in upper case.
func (c *Catalog) MentionedMarkers(message string) []string {
	text := Normalize(message)

	var out []string

	for _, def := range c.defs {
		for _, name := range def.Names() {
			if containsWord(text, normalizeName(name)) {
				out = append(out, def.Name)
				break
			}
		}
	}

	seen := make(map[string]bool)

	for _, h := range heuristicRanges {
		name := strings.ToUpper(h.key)
		if seen[name] || !containsWord(text, h.key) {
			continue
		}

		if _, known := c.Lookup(h.key); known {
			continue
		}

		seen[name] = true
		out = append(out, name)
	}

	return out
}

// RelevantRecords narrows records to the markers a message mentions. When the
// message names none of them every record is returned, so a general question
// still sees the whole report.
func (c *Catalog) RelevantRecords(records []HealthMarkerRecord, message string) []HealthMarkerRecord {
	mentioned := c.MentionedMarkers(message)
	if len(mentioned) == 0 {
		return records
	}

	var out []HealthMarkerRecord

	for _, r := range records {
		name := strings.ToLower(r.Name)

		for _, m := range mentioned {
			if strings.EqualFold(r.Name, m) || strings.Contains(name, strings.ToLower(m)) {
				out = append(out, r)
				break
			}
		}
	}

	if len(out) == 0 {
		return records
	}

	return out
}

// containsWord reports whether needle occurs in text with no letter or digit
// directly on either side.
func containsWord(text, needle string) bool {
	if needle == "" {
		return false
	}

	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], needle)
		if i < 0 {
			return false
		}

		start := offset + i
		end := start + len(needle)

		if !wordRuneBefore(text, start) && !wordRuneAt(text, end) {
			return true
		}

		offset = start + 1
	}

	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}

	r, _ := utf8.DecodeLastRuneInString(s[:i])

	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}

	r, _ := utf8.DecodeRuneInString(s[i:])

	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
