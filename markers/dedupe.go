/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"cmp"
	"slices"
	"strings"
)

// minClaimWord is the shortest name word that claims a fallback candidate.
// Any shared word of this length or more marks the candidate as a duplicate,
// so "Total Protein" is dropped beside an accepted "Total Cholesterol".
const minClaimWord = 4

// claims tracks the names and words owned by accepted matches.
type claims struct {
	names map[string]bool
	words map[string]bool
}

func newClaims() *claims {
	return &claims{names: make(map[string]bool), words: make(map[string]bool)}
}

func (c *claims) add(m RawMatch) {
	c.names[normalizeName(m.Name)] = true
	c.names[normalizeName(m.Mention)] = true

	if m.Definition != nil {
		for _, alias := range m.Definition.Aliases {
			c.names[normalizeName(alias)] = true
		}
	}

	for _, w := range claimWords(m.Name + " " + m.Mention) {
		c.words[w] = true
	}
}

func (c *claims) covers(m RawMatch) bool {
	if c.names[normalizeName(m.Name)] || c.names[normalizeName(m.Mention)] {
		return true
	}

	for _, w := range claimWords(m.Mention) {
		if c.words[w] {
			return true
		}
	}

	return false
}

func claimWords(name string) []string {
	var out []string

	for _, w := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '\t'
	}) {
		if len(w) >= minClaimWord {
			out = append(out, w)
		}
	}

	return out
}

// Merge reconciles catalog and fallback matches into one list ordered by
// first occurrence. Catalog matches are accepted first, at most one per
// definition; a fallback match survives only when it names something no
// accepted match already covers. A fallback match whose name is a catalog
// alias is promoted to that catalog marker.
func Merge(cat *Catalog, catalogHits, fallbackHits []RawMatch) []RawMatch {
	var accepted []RawMatch

	owned := newClaims()
	taken := make(map[*MarkerDefinition]bool)

	for _, hit := range catalogHits {
		if hit.Definition == nil || taken[hit.Definition] || overlapsAny(accepted, hit) {
			continue
		}

		accepted = append(accepted, hit)
		taken[hit.Definition] = true
		owned.add(hit)
	}

	for _, hit := range fallbackHits {
		if def, ok := cat.Lookup(hit.Mention); ok {
			if taken[def] || overlapsAny(accepted, hit) {
				continue
			}

			hit = promote(hit, def)
			taken[def] = true
		} else if owned.covers(hit) || overlapsAny(accepted, hit) {
			continue
		}

		accepted = append(accepted, hit)
		owned.add(hit)
	}

	slices.SortStableFunc(accepted, func(a, b RawMatch) int {
		return cmp.Compare(a.Start, b.Start)
	})

	return accepted
}

func promote(hit RawMatch, def *MarkerDefinition) RawMatch {
	hit.Name = def.Name
	hit.Definition = def

	if hit.UnitGuessed {
		hit.Unit = def.Range.Unit
		hit.UnitGuessed = false
	}

	return hit
}

func overlapsAny(accepted []RawMatch, m RawMatch) bool {
	for _, a := range accepted {
		if m.Start < a.End && a.Start < m.End {
			return true
		}
	}

	return false
}
