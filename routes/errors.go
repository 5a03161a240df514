/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errEmptyInput      = errors.New("no report text was provided")
	errInputTooLarge   = errors.New("report text is too large")
	errInvalidReport   = errors.New("invalid report id")
	errMissingQuestion = errors.New("question is required")
)
