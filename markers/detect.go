/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

// Detector runs the extraction pipeline against a catalog snapshot. It holds
// no per-call state and is safe for concurrent use.
type Detector struct {
	store  *CatalogStore
	window int
}

// Option configures a Detector.
type Option func(*Detector)

// WithRangeWindow sets how many bytes after a mention are searched for a
// printed reference interval.
func WithRangeWindow(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.window = n
		}
	}
}

// WithStore makes the detector read its catalog from store, so that catalog
// swaps take effect on the next call.
func WithStore(store *CatalogStore) Option {
	return func(d *Detector) {
		if store != nil {
			d.store = store
		}
	}
}

// NewDetector returns a detector over cat. A nil cat selects the built-in
// catalog.
func NewDetector(cat *Catalog, opts ...Option) *Detector {
	if cat == nil {
		cat = DefaultCatalog()
	}

	d := &Detector{store: NewCatalogStore(cat), window: DefaultRangeWindow}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Catalog returns the snapshot the next Detect call will use.
func (d *Detector) Catalog() *Catalog {
	if cat := d.store.Load(); cat != nil {
		return cat
	}

	return DefaultCatalog()
}

// Detect extracts, deduplicates and classifies every marker in text. Text
// without markers yields an empty result, not an error.
func (d *Detector) Detect(text string) DetectionResult {
	cat := d.Catalog()
	doc := newDocument(text)

	candidates := Merge(cat, extractCatalog(cat, doc), extractFallback(doc))

	result := DetectionResult{Markers: make([]HealthMarkerRecord, 0, len(candidates))}

	for i, m := range candidates {
		next := -1
		if i+1 < len(candidates) {
			next = candidates[i+1].Start
		}

		rng, confidence := resolveRange(doc.lower, m, next, d.window)
		status := Classify(m.Value, rng)
		severity := SeverityOf(m.Value, rng, status)

		// A guessed unit yields to the unit of a table range.
		unit := m.Unit
		if m.UnitGuessed && rng.Unit != "" {
			unit = rng.Unit
		}

		result.Markers = append(result.Markers, HealthMarkerRecord{
			Name:            m.Name,
			Value:           m.Value,
			Unit:            unit,
			Status:          status,
			NormalRange:     rng,
			RangeConfidence: confidence,
			Severity:        severity,
			RawText:         m.Context,
			Recommendation:  Recommend(m.Name, m.Value, unit, status, severity),
		})
	}

	logger.Debug("Detected markers", "count", len(result.Markers), "abnormal", len(result.Abnormal()))

	return result
}

// Detect runs the built-in catalog over text.
func Detect(text string) DetectionResult {
	return NewDetector(nil).Detect(text)
}
