/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"strconv"
	"strings"
)

// Unit spellings used for display and range lookup.
const (
	UnitMgDL     = "mg/dL"
	UnitMgL      = "mg/L"
	UnitMmolL    = "mmol/L"
	UnitUmolL    = "µmol/L"
	UnitGDL      = "g/dL"
	UnitGL       = "g/L"
	UnitPercent  = "%"
	UnitKPerUL   = "K/µL"
	UnitUIUmL    = "µIU/mL"
	UnitMIUL     = "mIU/L"
	UnitUgDL     = "µg/dL"
	UnitUgL      = "µg/L"
	UnitNgDL     = "ng/dL"
	UnitNgML     = "ng/mL"
	UnitPgML     = "pg/mL"
	UnitNmolL    = "nmol/L"
	UnitPmolL    = "pmol/L"
	UnitUL       = "U/L"
	UnitIUL      = "IU/L"
	UnitMmHr     = "mm/hr"
	UnitEGFR     = "mL/min/1.73m²"
	UnitFL       = "fL"
	UnitPg       = "pg"
	UnitMPerUL   = "M/µL"
	UnitMEqL     = "mEq/L"
	UnitMinLabel = "mL/min"
)

// Regular expression fragments for units as they appear in normalized,
// lower-cased text. OCR often reads "g" as "9" and "l" as "1".
const (
	unitMgDL  = `mg/d[l1]`
	unitMgL   = `mg/[l1]`
	unitMmolL = `mmol/[l1]`
	unitUmolL = `[μu]mol/[l1]`
	unitGDL   = `[g9]/d[l1]`
	unitGL    = `[g9]/[l1]`
	unitPct   = `%|percent`
	unitKPerL = `k/[μu]l|(?:x|×)\s?10\^?3/[μu]l|10\^?3/[μu]l|thou/[μu]l`
	unitUIU   = `[μu]iu/ml|miu/[l1]|miu/ml`
	unitUgDL  = `[μu]g/d[l1]|mcg/d[l1]`
	unitUgL   = `[μu]g/[l1]|mcg/[l1]`
	unitNgDL  = `n[g9]/d[l1]`
	unitNgML  = `n[g9]/ml|n[g9]ml|naml\.?|nal\.?|n[g9]`
	unitPgML  = `p[g9]/ml`
	unitNmolL = `nmol/[l1]`
	unitPmolL = `pmol/[l1]`
	unitUL    = `iu/[l1]|u/[l1]`
	unitMmHr  = `mm/h(?:ou)?r|mm/1\s?hr?|mm/h`
	unitEGFR  = `ml/min/1\.73\s?m2|ml/min`
)

// unitAliases maps squeezed, lower-cased unit spellings (micro signs folded to
// "u") to their display form.
var unitAliases = map[string]string{
	"mg/dl": UnitMgDL, "mg/d1": UnitMgDL,
	"mg/l": UnitMgL, "mg/1": UnitMgL,
	"mmol/l": UnitMmolL, "mmol/1": UnitMmolL,
	"umol/l": UnitUmolL, "umol/1": UnitUmolL,
	"g/dl": UnitGDL, "9/dl": UnitGDL, "g/d1": UnitGDL, "9/d1": UnitGDL,
	"g/l": UnitGL, "9/l": UnitGL, "g/1": UnitGL, "9/1": UnitGL,
	"%": UnitPercent, "percent": UnitPercent,
	"k/ul": UnitKPerUL, "x10^3/ul": UnitKPerUL, "x103/ul": UnitKPerUL, "10^3/ul": UnitKPerUL,
	"103/ul": UnitKPerUL, "thou/ul": UnitKPerUL,
	"uiu/ml": UnitUIUmL, "miu/l": UnitMIUL, "miu/1": UnitMIUL, "miu/ml": UnitMIUL,
	"ug/dl": UnitUgDL, "ug/d1": UnitUgDL, "mcg/dl": UnitUgDL, "mcg/d1": UnitUgDL,
	"ug/l": UnitUgL, "ug/1": UnitUgL, "mcg/l": UnitUgL, "mcg/1": UnitUgL,
	"ng/dl": UnitNgDL, "n9/dl": UnitNgDL, "ng/d1": UnitNgDL, "n9/d1": UnitNgDL,
	"ng/ml": UnitNgML, "n9/ml": UnitNgML, "ngml": UnitNgML, "n9ml": UnitNgML,
	"naml": UnitNgML, "naml.": UnitNgML, "nal": UnitNgML, "nal.": UnitNgML,
	"ng": UnitNgML, "n9": UnitNgML,
	"pg/ml": UnitPgML, "p9/ml": UnitPgML,
	"nmol/l": UnitNmolL, "nmol/1": UnitNmolL,
	"pmol/l": UnitPmolL, "pmol/1": UnitPmolL,
	"u/l": UnitUL, "u/1": UnitUL,
	"iu/l": UnitIUL, "iu/1": UnitIUL,
	"mm/hr": UnitMmHr, "mm/hour": UnitMmHr, "mm/h": UnitMmHr, "mm/1hr": UnitMmHr, "mm/1h": UnitMmHr,
	"ml/min/1.73m2": UnitEGFR, "ml/min": UnitMinLabel,
	"fl": UnitFL, "pg": UnitPg,
	"m/ul": UnitMPerUL, "x10^6/ul": UnitMPerUL, "x106/ul": UnitMPerUL,
	"meq/l": UnitMEqL,
}

var unitKeyReplacer = strings.NewReplacer(" ", "", "μ", "u", "µ", "u", "×", "x")

// canonicalUnits holds every display spelling unitAliases produces.
var canonicalUnits = func() map[string]bool {
	out := make(map[string]bool, len(unitAliases))
	for _, u := range unitAliases {
		out[u] = true
	}

	return out
}()

// CanonicalUnit maps a unit as written (including common OCR misreads) to
// its display spelling. A trailing sentence period is dropped. Unknown units
// are returned trimmed but otherwise unchanged.
func CanonicalUnit(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), ".")
	key := unitKeyReplacer.Replace(strings.ToLower(trimmed))

	if canonical, ok := unitAliases[key]; ok {
		return canonical
	}

	return trimmed
}

// knownUnit reports whether unit is one of the canonical display spellings.
func knownUnit(unit string) bool {
	return canonicalUnits[unit]
}

// formatNumber prints a float without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
