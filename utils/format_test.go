// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Format
	}{
		{"", FormatText},
		{"TEXT", FormatText},
		{"org", FormatOrg},
		{" hocr ", FormatHTML},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.name)
		if err != nil || got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, %v", tt.name, got, err)
		}
	}

	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"labs/2025-03.org": FormatOrg,
		"scan.HOCR":        FormatHTML,
		"report.html":      FormatHTML,
		"report.txt":       FormatText,
		"-":                FormatText,
	}

	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Fatalf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	got, err := ExtractText(FormatHTML, "<p>LDL: 150 mg/dL</p>")
	if err != nil || got != "LDL: 150 mg/dL" {
		t.Fatalf("unexpected html extraction %q, %v", got, err)
	}

	if got, _ := ExtractText(FormatText, "as is\n"); got != "as is\n" {
		t.Fatalf("expected text to pass through, got %q", got)
	}

	if _, err := ExtractText(Format("pdf"), "x"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
