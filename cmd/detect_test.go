// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/labmarkers/markers"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	if got := renderTable(markers.DetectionResult{}); got != "No health markers found." {
		t.Fatalf("unexpected empty output %q", got)
	}

	out := renderTable(markers.Detect("LDL Cholesterol: 160 mg/dL\nHDL Cholesterol: 52 mg/dL"))

	for _, want := range []string{"MARKER", "LDL", "HDL", "<100 mg/dL", "high", "2 markers, 1 abnormal"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "bloods.org")
	chart := filepath.Join(dir, "chart.html")

	content := "#+TITLE: Annual bloods\n\n| Ferritin | 12 ng/mL |\n| HDL Cholesterol | 52 mg/dL |\n"
	if err := os.WriteFile(report, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}

	var out bytes.Buffer

	app := &cli.Command{
		Name:     "labmarkers",
		Writer:   &out,
		Commands: []*cli.Command{CmdDetect},
	}

	err := app.Run(context.Background(), []string{"labmarkers", "detect", "--json", "--abnormal", "--chart", chart, report})
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var result markers.DetectionResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode output %q: %v", out.String(), err)
	}

	if result.Len() != 1 || result.Markers[0].Name != "Ferritin" || result.Markers[0].Status != markers.StatusLow {
		t.Fatalf("expected only low ferritin, got %+v", result.Markers)
	}

	html, err := os.ReadFile(chart)
	if err != nil {
		t.Fatalf("expected chart file: %v", err)
	}

	if !strings.Contains(string(html), "Annual bloods") {
		t.Fatalf("expected chart to carry the org title")
	}
}
