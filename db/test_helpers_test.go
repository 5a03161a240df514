// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/humaidq/labmarkers/markers"
)

const sampleReport = `Total Cholesterol: 245 mg/dL (H)
HDL Cholesterol: 38 mg/dL (L)
LDL Cholesterol: 160 mg/dL
Ferritin: 12 ng/mL
TSH 2.1 uIU/mL`

func testContext() context.Context {
	return context.Background()
}

func mustCreateReport(t *testing.T, title, text string) uuid.UUID {
	t.Helper()

	id, created, err := CreateReport(testContext(), CreateReportInput{
		Title:   title,
		RawText: text,
		Result:  markers.Detect(text),
	})
	if err != nil {
		t.Fatalf("failed to create report: %v", err)
	}

	if !created {
		t.Fatalf("expected a new report for %q", title)
	}

	return id
}
