/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import "errors"

var (
	ErrOrgParse          = errors.New("failed to parse org-mode content")
	ErrHTMLParse         = errors.New("failed to parse HTML content")
	ErrUnsupportedFormat = errors.New("unsupported input format")
)
