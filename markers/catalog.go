/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Catalog is an immutable registry of known markers. It is safe for
// concurrent use without locking; build a new one to change it.
type Catalog struct {
	defs   []*MarkerDefinition
	byName map[string]*MarkerDefinition
}

// CatalogBuilder collects marker definitions and compiles them into a Catalog.
type CatalogBuilder struct {
	defs []MarkerDefinition
}

// NewCatalogBuilder returns an empty builder.
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{}
}

// Add queues definitions; their order is the catalog priority order.
func (b *CatalogBuilder) Add(defs ...MarkerDefinition) *CatalogBuilder {
	b.defs = append(b.defs, defs...)
	return b
}

// Build validates and compiles the queued definitions. The builder's input is
// copied, so later changes to the caller's slices do not leak into the catalog.
func (b *CatalogBuilder) Build() (*Catalog, error) {
	if len(b.defs) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		defs:   make([]*MarkerDefinition, 0, len(b.defs)),
		byName: make(map[string]*MarkerDefinition),
	}

	for i := range b.defs {
		def, err := compileDefinition(b.defs[i])
		if err != nil {
			return nil, err
		}

		for _, name := range def.Names() {
			key := normalizeName(name)
			if existing, ok := c.byName[key]; ok {
				return nil, fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateMarker, name, existing.Name, def.Name)
			}
			c.byName[key] = def
		}

		c.defs = append(c.defs, def)
	}

	return c, nil
}

func compileDefinition(in MarkerDefinition) (*MarkerDefinition, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrMissingName
	}

	if len(in.Patterns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingPattern, in.Name)
	}

	if !in.Range.HasBounds() {
		return nil, fmt.Errorf("%w: %s", ErrMissingRange, in.Name)
	}

	def := &MarkerDefinition{
		Name:     in.Name,
		Category: in.Category,
		Aliases:  slices.Clone(in.Aliases),
		Patterns: slices.Clone(in.Patterns),
		Range:    in.Range.clone(),
		Excludes: slices.Clone(in.Excludes),
	}

	if len(in.UnitRanges) > 0 {
		def.UnitRanges = make(map[string]NormalRange, len(in.UnitRanges))
		for unit, r := range in.UnitRanges {
			def.UnitRanges[unit] = r.clone()
		}
	}

	for _, pattern := range def.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, def.Name, err)
		}

		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("%w: %s: %q has no value group", ErrInvalidPattern, def.Name, pattern)
		}

		def.compiled = append(def.compiled, re)
	}

	return def, nil
}

// Definitions returns the catalog entries in priority order.
func (c *Catalog) Definitions() []*MarkerDefinition {
	return slices.Clone(c.defs)
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Lookup resolves a canonical name or alias, ignoring case and spacing.
func (c *Catalog) Lookup(name string) (*MarkerDefinition, bool) {
	def, ok := c.byName[normalizeName(name)]
	return def, ok
}

// Aliases returns the lower-cased name vocabulary mapped to canonical names.
func (c *Catalog) Aliases() map[string]string {
	out := make(map[string]string, len(c.byName))
	for key, def := range c.byName {
		out[key] = def.Name
	}

	return out
}

// AliasKeys returns the vocabulary keys sorted for stable iteration.
func (c *Catalog) AliasKeys() []string {
	return slices.Sorted(maps.Keys(c.byName))
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the built-in catalog, built once per process.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		cat, err := NewCatalogBuilder().Add(DefaultDefinitions()...).Build()
		if err != nil {
			panic(fmt.Sprintf("markers: built-in catalog is invalid: %v", err))
		}
		defaultCatalog = cat
	})

	return defaultCatalog
}

// CatalogStore holds the current catalog snapshot. Readers load the pointer
// without locking; updates replace the whole snapshot.
type CatalogStore struct {
	current atomic.Pointer[Catalog]
}

// NewCatalogStore returns a store holding cat.
func NewCatalogStore(cat *Catalog) *CatalogStore {
	s := &CatalogStore{}
	s.current.Store(cat)

	return s
}

// Load returns the current snapshot, which may be nil for an empty store.
func (s *CatalogStore) Load() *Catalog {
	return s.current.Load()
}

// Swap installs cat and returns the previous snapshot.
func (s *CatalogStore) Swap(cat *Catalog) (*Catalog, error) {
	if cat == nil {
		return nil, ErrCatalogNotLoaded
	}

	return s.current.Swap(cat), nil
}
