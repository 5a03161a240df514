/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const contextRadius = 50

// symbolReplacer folds the dash and comparison glyphs OCR engines emit into
// their ASCII forms. NFKC has already handled superscripts and the micro sign.
var symbolReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"−", "-", // minus sign
	"≤", "<=",
	"≥", ">=",
	"\u00a0", " ",
)

// document is input text prepared for scanning. Offsets produced by any pass
// index into both lower and display, which always have the same length.
type document struct {
	display string
	lower   string
}

// Normalize returns the lower-cased, NFKC-normalised form of text that every
// extraction pass scans. It is idempotent.
func Normalize(text string) string {
	return newDocument(text).lower
}

func newDocument(text string) document {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, " ")
	}

	display := symbolReplacer.Replace(norm.NFKC.String(text))
	lower := strings.ToLower(display)

	// A few runes change byte length when lower-cased; fall back to the
	// lower-cased text for snippets so offsets stay valid.
	if len(lower) != len(display) {
		display = lower
	}

	return document{display: display, lower: lower}
}

// snippet returns the display text around [start, end), widened by the
// context radius and clipped to rune boundaries.
func (d document) snippet(start, end int) string {
	lo := max(0, start-contextRadius)
	hi := min(len(d.display), end+contextRadius)

	for lo > 0 && !utf8.RuneStart(d.display[lo]) {
		lo--
	}

	for hi < len(d.display) && !utf8.RuneStart(d.display[hi]) {
		hi++
	}

	return strings.TrimSpace(d.display[lo:hi])
}
