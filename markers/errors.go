/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCatalog     = errors.New("catalog has no marker definitions")
	ErrDuplicateMarker  = errors.New("duplicate marker name")
	ErrInvalidPattern   = errors.New("invalid marker pattern")
	ErrMissingPattern   = errors.New("marker definition has no patterns")
	ErrMissingName      = errors.New("marker definition has no name")
	ErrMissingRange     = errors.New("marker definition has no range bound")
	ErrNonFiniteValue   = errors.New("value is not a finite number")
	ErrCatalogNotLoaded = errors.New("catalog store is empty")
)

// ParseError reports a captured numeric group that could not be parsed. It is
// recovered inside the extractors by dropping the single match.
type ParseError struct {
	Marker string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s value %q: %v", e.Marker, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
