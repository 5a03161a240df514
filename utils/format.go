/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names the shape of a report before it reaches the detector.
type Format string

const (
	FormatText Format = "text"
	FormatOrg  Format = "org"
	FormatHTML Format = "html"
)

// ParseFormat accepts a format name as given on the command line or in a
// form field. An empty name means plain text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "org":
		return FormatOrg, nil
	case "html", "htm", "hocr":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to
// plain text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".org":
		return FormatOrg
	case ".html", ".htm", ".hocr", ".xhtml":
		return FormatHTML
	default:
		return FormatText
	}
}

// ExtractText converts content of the given format into detector input.
func ExtractText(format Format, content string) (string, error) {
	switch format {
	case FormatText, "":
		return content, nil
	case FormatOrg:
		return ExtractOrgText(content)
	case FormatHTML:
		return ExtractHTMLText(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
