// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"strings"
	"testing"
)

func TestExtractHTMLText(t *testing.T) {
	t.Parallel()

	input := `<html><head><title>Lab report</title><style>p{}</style></head><body>
<h1>Results</h1>
<p>Glucose (fasting): <b>92</b> mg/dL</p>
<script>var ldl = 999;</script>
<table>
  <tr><th>Test</th><th>Result</th><th>Unit</th></tr>
  <tr><td>LDL</td><td>160</td><td>mg/dL</td></tr>
</table>
<div>TSH<br>2.1 uIU/mL</div>
</body></html>`

	got, err := ExtractHTMLText(input)
	if err != nil {
		t.Fatalf("ExtractHTMLText failed: %v", err)
	}

	want := "Results\nGlucose (fasting): 92 mg/dL\nTest: Result Unit\nLDL: 160 mg/dL\nTSH\n2.1 uIU/mL"
	if got != want {
		t.Fatalf("unexpected text:\n%s\nwant:\n%s", got, want)
	}
}

func TestExtractHTMLTextHOCR(t *testing.T) {
	t.Parallel()

	input := `<div class="ocr_page">` +
		`<span class="ocr_line"><span class="ocrx_word">LDL</span><span class="ocrx_word">150</span><span class="ocrx_word">mg/dL</span></span>` +
		`<span class="ocr_line"><span class="ocrx_word">HDL</span><span class="ocrx_word">38</span></span>` +
		`</div>`

	got, err := ExtractHTMLText(input)
	if err != nil {
		t.Fatalf("ExtractHTMLText failed: %v", err)
	}

	if got != "LDL 150 mg/dL\nHDL 38" {
		t.Fatalf("unexpected hOCR text %q", got)
	}
}

func TestExtractHTMLTextPreservesPre(t *testing.T) {
	t.Parallel()

	got, err := ExtractHTMLText("<pre>LDL:   150 mg/dL\nHDL:   38 mg/dL</pre>")
	if err != nil {
		t.Fatalf("ExtractHTMLText failed: %v", err)
	}

	if lines := strings.Split(got, "\n"); len(lines) != 2 || lines[1] != "HDL: 38 mg/dL" {
		t.Fatalf("expected pre lines to survive, got %q", got)
	}
}

func TestHasClass(t *testing.T) {
	t.Parallel()

	got, err := ExtractHTMLText(`<span class="ocrx_word x">A</span><span class="ocrx_wordy">B</span>`)
	if err != nil {
		t.Fatalf("ExtractHTMLText failed: %v", err)
	}

	if got != "A B" && got != "A B " {
		t.Fatalf("expected class match on whole tokens only, got %q", got)
	}
}
