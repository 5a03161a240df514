/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/humaidq/labmarkers/markers"
)

// Digest identifies a report by its text. Whitespace at either end is
// ignored so a re-pasted report maps to the same row.
func Digest(text string) []byte {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(text)))
	return sum[:]
}

// CreateReport stores a detection run. When a report with the same text was
// stored before, its id is returned and created is false.
func CreateReport(ctx context.Context, input CreateReportInput) (id uuid.UUID, created bool, err error) {
	if pool == nil {
		return uuid.Nil, false, ErrDatabaseConnectionNotInitialized
	}

	if strings.TrimSpace(input.RawText) == "" {
		return uuid.Nil, false, ErrEmptyReport
	}

	digest := Digest(input.RawText)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("Failed to roll back report transaction", "error", err)
		}
	}()

	err = tx.QueryRow(ctx, `SELECT id FROM reports WHERE text_digest = $1`, digest).Scan(&id)
	if err == nil {
		return id, false, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, fmt.Errorf("failed to look up report digest: %w", err)
	}

	id = uuid.New()
	format := input.SourceFormat
	if format == "" {
		format = "text"
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reports (id, title, source_format, raw_text, text_digest, marker_count, abnormal_count, collected_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, input.Title, format, input.RawText, digest,
		input.Result.Len(), len(input.Result.Abnormal()), input.CollectedOn)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to create report: %w", err)
	}

	batch := &pgx.Batch{}

	for i, m := range input.Result.Markers {
		batch.Queue(`
			INSERT INTO detected_markers (
				id, report_id, position, name, value, unit,
				range_min, range_max, range_unit, range_confidence,
				status, severity, raw_text, recommendation
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, uuid.New(), id, i, m.Name, m.Value, m.Unit,
			m.NormalRange.Min, m.NormalRange.Max, m.NormalRange.Unit, string(m.RangeConfidence),
			string(m.Status), string(m.Severity), m.RawText, m.Recommendation)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to store detected markers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to commit report: %w", err)
	}

	logger.Info("Stored report", "report_id", id, "markers", input.Result.Len())

	return id, true, nil
}

// GetReport returns a stored report with its markers in detection order.
func GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var report Report

	err := pool.QueryRow(ctx, `
		SELECT id, title, source_format, marker_count, abnormal_count, collected_on, created_at, raw_text
		FROM reports
		WHERE id = $1
	`, id).Scan(
		&report.ID, &report.Title, &report.SourceFormat,
		&report.MarkerCount, &report.AbnormalCount, &report.CollectedOn, &report.CreatedAt,
		&report.RawText,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}

		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	rows, err := pool.Query(ctx, `
		SELECT name, value, unit, range_min, range_max, range_unit, range_confidence,
		       status, severity, raw_text, recommendation
		FROM detected_markers
		WHERE report_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list detected markers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m                            markers.HealthMarkerRecord
			confidence, status, severity string
		)

		err := rows.Scan(
			&m.Name, &m.Value, &m.Unit,
			&m.NormalRange.Min, &m.NormalRange.Max, &m.NormalRange.Unit, &confidence,
			&status, &severity, &m.RawText, &m.Recommendation,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detected marker: %w", err)
		}

		m.RangeConfidence = markers.RangeConfidence(confidence)
		m.Status = markers.Status(status)
		m.Severity = markers.Severity(severity)
		report.Markers = append(report.Markers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detected markers: %w", err)
	}

	return &report, nil
}

// ListReports returns stored reports, most recently collected first.
func ListReports(ctx context.Context) ([]ReportSummary, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT id, title, source_format, marker_count, abnormal_count, collected_on, created_at
		FROM reports
		ORDER BY COALESCE(collected_on::timestamptz, created_at) DESC, created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportSummary

	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.SourceFormat, &r.MarkerCount, &r.AbnormalCount, &r.CollectedOn, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// DeleteReport removes a report and its markers.
func DeleteReport(ctx context.Context, id uuid.UUID) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	tag, err := pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}

	return nil
}

// ListMarkerHistory returns every stored reading of a marker, oldest first by
// report date.
// The name is compared case-insensitively.
func ListMarkerHistory(ctx context.Context, name string) ([]MarkerHistoryPoint, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT r.id, r.title, COALESCE(r.collected_on::timestamptz, r.created_at), m.value, m.unit, m.status,
		       m.range_min, m.range_max, m.range_unit
		FROM detected_markers m
		INNER JOIN reports r ON m.report_id = r.id
		WHERE lower(m.name) = lower($1)
		ORDER BY COALESCE(r.collected_on::timestamptz, r.created_at) ASC, r.created_at ASC, m.position ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list marker history: %w", err)
	}
	defer rows.Close()

	var points []MarkerHistoryPoint

	for rows.Next() {
		var (
			p      MarkerHistoryPoint
			status string
		)

		err := rows.Scan(
			&p.ReportID, &p.ReportTitle, &p.Date, &p.Value, &p.Unit, &status,
			&p.NormalRange.Min, &p.NormalRange.Max, &p.NormalRange.Unit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marker history: %w", err)
		}

		p.Status = markers.Status(status)
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating marker history: %w", err)
	}

	return points, nil
}

// ListStoredMarkerNames returns the distinct marker names across all
// reports with their reading counts.
func ListStoredMarkerNames(ctx context.Context) (map[string]int, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `SELECT name, COUNT(*) FROM detected_markers GROUP BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list marker names: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var (
			name  string
			count int
		)

		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan marker name: %w", err)
		}

		counts[name] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating marker names: %w", err)
	}

	return counts, nil
}
