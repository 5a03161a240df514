/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/humaidq/labmarkers/markers"
)

// SyncMarkerCatalog upserts every catalog definition into
// marker_definitions so stored readings can be charted against the declared
// range even after the built-in table changes.
func SyncMarkerCatalog(ctx context.Context, cat *markers.Catalog) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if cat == nil {
		cat = markers.DefaultCatalog()
	}

	defs := cat.Definitions()
	logger.Infof("Syncing %d marker definitions to database...", len(defs))

	query := `
		INSERT INTO marker_definitions (name, category, aliases, range_min, range_max, range_unit)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name)
		DO UPDATE SET
			category = EXCLUDED.category,
			aliases = EXCLUDED.aliases,
			range_min = EXCLUDED.range_min,
			range_max = EXCLUDED.range_max,
			range_unit = EXCLUDED.range_unit,
			updated_at = now()
	`

	batch := &pgx.Batch{}
	for _, def := range defs {
		aliases := def.Aliases
		if aliases == nil {
			aliases = []string{}
		}

		batch.Queue(query,
			def.Name, string(def.Category), aliases,
			def.Range.Min, def.Range.Max, def.Range.Unit,
		)
	}

	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to sync marker definitions: %w", err)
	}

	logger.Infof("Successfully synced %d marker definitions", len(defs))

	return nil
}

// GetMarkerDefinition returns the stored definition for a canonical marker
// name, compared case-insensitively.
func GetMarkerDefinition(ctx context.Context, name string) (*MarkerDefinitionRow, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	var (
		row      MarkerDefinitionRow
		category string
	)

	err := pool.QueryRow(ctx, `
		SELECT name, category, aliases, range_min, range_max, range_unit, updated_at
		FROM marker_definitions
		WHERE lower(name) = lower($1)
	`, name).Scan(
		&row.Name, &category, &row.Aliases,
		&row.RangeMin, &row.RangeMax, &row.RangeUnit, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMarkerDefinitionNotFound
		}

		return nil, fmt.Errorf("failed to get marker definition: %w", err)
	}

	row.Category = markers.Category(category)

	return &row, nil
}
