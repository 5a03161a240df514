/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/niklasfasching/go-org/org"
)

var newOrgConfig = org.New

var parseOrg = func(config *org.Configuration, reader io.Reader) *org.Document {
	return config.Parse(reader, "")
}

var newHTMLWriter = org.NewHTMLWriter

var writeOrg = func(doc *org.Document, writer *org.HTMLWriter) (string, error) {
	return doc.Write(writer)
}

// ParseOrgToHTML converts org-mode content to HTML. Links are rendered as
// plain text targets since exported lab notes never link inside the app.
func ParseOrgToHTML(content string) (string, error) {
	config := newOrgConfig()

	config.ResolveLink = func(protocol string, description []org.Node, link string) org.Node {
		return org.RegularLink{
			Protocol:    protocol,
			Description: description,
			URL:         link,
		}
	}

	doc := parseOrg(config, strings.NewReader(content))
	if doc.Error != nil {
		return "", fmt.Errorf("%w: %w", ErrOrgParse, doc.Error)
	}

	writer := newHTMLWriter()
	writer.HighlightCodeBlock = func(source, lang string, inline bool, params map[string]string) string {
		if inline {
			return `<code>` + html.EscapeString(source) + `</code>`
		}
		return `<pre>` + html.EscapeString(source) + `</pre>`
	}

	renderedHTML, err := writeOrg(doc, writer)
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}

	return renderedHTML, nil
}

// ExtractOrgText flattens an org-mode lab note into plain lines suitable for
// marker detection. Table rows become "first cell: remaining cells", so
//
//	| Glucose | 92 | mg/dL |
//
// reads as "Glucose: 92 mg/dL".
func ExtractOrgText(content string) (string, error) {
	rendered, err := ParseOrgToHTML(content)
	if err != nil {
		return "", err
	}

	return ExtractHTMLText(rendered)
}

// ExtractTitle extracts the title from org-mode content
// Tries #+TITLE: first, then falls back to the first headline
func ExtractTitle(content string) string {
	reTitleDirective := regexp.MustCompile(`(?i)^\s*#\+TITLE:\s+(.+)$`)

	for _, line := range strings.Split(content, "\n") {
		if matches := reTitleDirective.FindStringSubmatch(line); len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}

	reHeadline := regexp.MustCompile(`(?m)^\*+\s+(.+)$`)
	if matches := reHeadline.FindStringSubmatch(content); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	return ""
}

// ExtractDateDirective extracts a date from a #+DATE: directive.
func ExtractDateDirective(content string) (time.Time, bool) {
	re := regexp.MustCompile(`(?im)^\s*#\+DATE:\s*<?(\d{4}-\d{2}-\d{2})`)

	matches := re.FindStringSubmatch(content)
	if len(matches) < 2 {
		return time.Time{}, false
	}

	parsed, err := time.Parse("2006-01-02", matches[1])
	if err != nil {
		return time.Time{}, false
	}

	return parsed, true
}
