/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	ErrDatabaseURLNotSet                = errors.New("database url is not set")
	ErrDatabaseNameNotSpecified         = errors.New("database name not specified in connection string")
	ErrDatabaseConnectionNotInitialized = errors.New("database connection not initialized")
	ErrReportNotFound                   = errors.New("report not found")
	ErrMarkerDefinitionNotFound         = errors.New("marker definition not found")
	ErrEmptyReport                      = errors.New("report text is empty")
	ErrOllamaConfigIncomplete           = errors.New("ollama configuration incomplete: OLLAMA_URL and OLLAMA_MODEL must be set")
	ErrOllamaStatus                     = errors.New("ollama returned an error status")
)
