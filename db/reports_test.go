// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDigest(t *testing.T) {
	t.Parallel()

	a := Digest("LDL: 150 mg/dL")
	b := Digest("  LDL: 150 mg/dL\n")
	c := Digest("LDL: 151 mg/dL")

	if len(a) != 32 {
		t.Fatalf("expected a 32-byte digest, got %d", len(a))
	}

	if !bytes.Equal(a, b) {
		t.Fatalf("expected surrounding whitespace to be ignored")
	}

	if bytes.Equal(a, c) {
		t.Fatalf("expected different text to produce a different digest")
	}
}

func TestOperationsRequirePool(t *testing.T) {
	if pool != nil {
		t.Skip("database configured")
	}

	ctx := testContext()

	if _, _, err := CreateReport(ctx, CreateReportInput{RawText: "LDL: 1"}); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("CreateReport: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}

	if _, err := GetReport(ctx, uuid.New()); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("GetReport: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}

	if _, err := ListReports(ctx); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("ListReports: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}

	if _, err := ListMarkerHistory(ctx, "ldl"); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("ListMarkerHistory: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}

	if err := SyncMarkerCatalog(ctx, nil); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("SyncMarkerCatalog: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}

	if Ready() {
		t.Fatalf("expected Ready to be false without a pool")
	}
}

func TestInitRequiresURL(t *testing.T) {
	t.Parallel()

	if err := Init(testContext(), ""); !errors.Is(err, ErrDatabaseURLNotSet) {
		t.Fatalf("expected ErrDatabaseURLNotSet, got %v", err)
	}

	if _, err := OpenMigrationDB(""); !errors.Is(err, ErrDatabaseURLNotSet) {
		t.Fatalf("expected ErrDatabaseURLNotSet, got %v", err)
	}
}

func TestReportSummaryDate(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, time.May, 2, 10, 0, 0, 0, time.UTC)
	collected := time.Date(2025, time.April, 28, 0, 0, 0, 0, time.UTC)

	summary := ReportSummary{CreatedAt: created}
	if !summary.Date().Equal(created) {
		t.Fatalf("expected created time without a collection date, got %v", summary.Date())
	}

	summary.CollectedOn = &collected
	if !summary.Date().Equal(collected) {
		t.Fatalf("expected collection date, got %v", summary.Date())
	}
}
