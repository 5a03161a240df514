/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import "strings"

// Pattern building blocks. Text is lower-cased and NFKC-normalised before
// scanning, so fragments only need lower-case literals.
const (
	valueGroup = `(\d+(?:\.\d+)?)`
	// nameTag allows a short parenthesised note after the name, as in
	// "vitamin d (25-oh): 45".
	nameTag   = `(?:\s*\([^)]{1,24}\))?`
	looseSep  = `[\s:=\-]*`
	strictSep = `\s*[:=]\s*`
	qualifier = `(?:\s*(?:\((?:low|high|normal|[lh])\)|\*))?`
)

// withUnit matches "name <sep> value [qualifier] unit", capturing the value in
// group 1 and the unit in group 2.
func withUnit(names string, units ...string) string {
	return `\b(?:` + names + `)` + nameTag + looseSep + valueGroup + qualifier + `\s*(` + strings.Join(units, "|") + `)`
}

// bare matches "name: value" with no unit. It requires an explicit ":" or "="
// so that a name followed by an unrelated number does not match.
func bare(names string) string {
	return `\b(?:` + names + `)` + nameTag + strictSep + valueGroup
}

func def(name string, category Category, rng NormalRange, names string, units []string, aliases ...string) MarkerDefinition {
	return MarkerDefinition{
		Name:     name,
		Category: category,
		Aliases:  aliases,
		Patterns: []string{withUnit(names, units...), bare(names)},
		Range:    rng,
	}
}

func units(fragments ...string) []string {
	return fragments
}

// DefaultDefinitions returns the built-in marker table in priority order.
// Compound names come before the shorter names they contain, so
// "Hemoglobin A1C" is tried before "Hemoglobin".
func DefaultDefinitions() []MarkerDefinition {
	glucose := def("Glucose", CategoryBloodChemistry, Between(70, 100, UnitMgDL),
		`fasting blood sugar|fasting (?:plasma |blood )?glucose|blood glucose|plasma glucose|glucose|blood sugar|fbs|fbg`,
		units(unitMgDL, unitMmolL),
		"Blood Sugar", "Fasting Glucose", "Blood Glucose", "Fasting Blood Sugar", "FBS")
	glucose.UnitRanges = map[string]NormalRange{UnitMmolL: Between(3.9, 5.6, UnitMmolL)}

	a1c := def("Hemoglobin A1C", CategoryBloodChemistry, Between(4.0, 5.6, UnitPercent),
		`hba1c|hb a1c|h[ae]moglobin a1c|glycated ha?emoglobin|glycosylated ha?emoglobin|a1c`,
		units(unitPct),
		"HbA1c", "A1C", "Glycated Hemoglobin", "Glycated Haemoglobin", "Glycosylated Hemoglobin")

	creatinine := def("Creatinine", CategoryBloodChemistry, Between(0.6, 1.2, UnitMgDL),
		`serum creatinine|creatinine|creat`,
		units(unitMgDL, unitUmolL),
		"Serum Creatinine", "Creat")
	creatinine.UnitRanges = map[string]NormalRange{UnitUmolL: Between(53, 106, UnitUmolL)}

	bun := def("BUN", CategoryBloodChemistry, Between(7, 20, UnitMgDL),
		`blood urea nitrogen|urea nitrogen|bun`,
		units(unitMgDL, unitMmolL),
		"Blood Urea Nitrogen", "Urea Nitrogen")
	bun.UnitRanges = map[string]NormalRange{UnitMmolL: Between(2.5, 7.1, UnitMmolL)}

	cholesterol := def("Total Cholesterol", CategoryLipidPanel, AtMost(200, UnitMgDL),
		`total cholesterol|cholesterol,?\s*total|serum cholesterol|cholesterol|t\.?\s?chol|chol`,
		units(unitMgDL, unitMmolL),
		"Cholesterol", "Serum Cholesterol", "Cholesterol Total")
	cholesterol.UnitRanges = map[string]NormalRange{UnitMmolL: AtMost(5.2, UnitMmolL)}
	cholesterol.Excludes = []string{"hdl ", "ldl ", "hdl-", "ldl-", "hdl-c ", "ldl-c ", "non-hdl ", "vldl "}

	ldl := def("LDL", CategoryLipidPanel, AtMost(100, UnitMgDL),
		`(?:calculated |calc\.? |direct )?ldl(?:[\s\-]?c\b|\s+cholesterol)?|low[\s\-]density lipoprotein(?:\s+cholesterol)?`,
		units(unitMgDL, unitMmolL),
		"Low-Density Lipoprotein", "Low Density Lipoprotein", "LDL Cholesterol", "LDL-C")
	ldl.UnitRanges = map[string]NormalRange{UnitMmolL: AtMost(2.6, UnitMmolL)}

	hdl := def("HDL", CategoryLipidPanel, AtLeast(40, UnitMgDL),
		`hdl(?:[\s\-]?c\b|\s+cholesterol)?|high[\s\-]density lipoprotein(?:\s+cholesterol)?`,
		units(unitMgDL, unitMmolL),
		"High-Density Lipoprotein", "High Density Lipoprotein", "HDL Cholesterol", "HDL-C")
	hdl.UnitRanges = map[string]NormalRange{UnitMmolL: AtLeast(1.0, UnitMmolL)}
	hdl.Excludes = []string{"non-", "non "}

	triglycerides := def("Triglycerides", CategoryLipidPanel, AtMost(150, UnitMgDL),
		`triglycerides?|triacylglycerols?|trig|tg`,
		units(unitMgDL, unitMmolL),
		"Triglyceride", "Triacylglycerols", "TG")
	triglycerides.UnitRanges = map[string]NormalRange{UnitMmolL: AtMost(1.7, UnitMmolL)}

	hemoglobin := def("Hemoglobin", CategoryBloodCounts, Between(12, 16, UnitGDL),
		`h[ae]moglobin|hgb|hb`,
		units(unitGDL, unitGL),
		"Hgb", "Hb", "Haemoglobin")
	hemoglobin.UnitRanges = map[string]NormalRange{UnitGL: Between(120, 160, UnitGL)}
	hemoglobin.Excludes = []string{"glycated ", "glycosylated ", "corpuscular ", "mean cell "}

	hematocrit := def("Hematocrit", CategoryBloodCounts, Between(36, 46, UnitPercent),
		`h[ae]matocrit|packed cell volume|hct|pcv`,
		units(unitPct),
		"Hct", "Haematocrit", "PCV", "Packed Cell Volume")

	wbc := def("White Blood Cells", CategoryBloodCounts, Between(4.5, 11.0, UnitKPerUL),
		`white blood cells?(?: count)?|white cell count|total leukocyte count|leukocytes|wbc(?: count)?|tlc`,
		units(unitKPerL),
		"WBC", "Leukocytes", "White Blood Cell Count", "White Cell Count", "WBC Count")

	platelets := def("Platelets", CategoryBloodCounts, Between(150, 450, UnitKPerUL),
		`platelets?(?: count)?|thrombocytes|plt`,
		units(unitKPerL),
		"Platelet Count", "Platelet", "PLT", "Thrombocytes")

	tsh := def("TSH", CategoryThyroid, Between(0.4, 4.0, UnitUIUmL),
		`tsh|thyroid[\s\-]stimulating hormone|thyrotropin`,
		units(unitUIU),
		"Thyroid-Stimulating Hormone", "Thyroid Stimulating Hormone", "Thyrotropin")
	tsh.UnitRanges = map[string]NormalRange{UnitMIUL: Between(0.4, 4.0, UnitMIUL)}

	t4 := def("T4", CategoryThyroid, Between(0.8, 1.8, UnitNgDL),
		`free t4|ft4|free thyroxine|thyroxine|t4`,
		units(unitNgDL, unitUgDL, unitPmolL, unitNmolL),
		"Thyroxine", "Free T4", "FT4", "Free Thyroxine")
	t4.UnitRanges = map[string]NormalRange{
		UnitUgDL:  Between(4.5, 12, UnitUgDL),
		UnitPmolL: Between(10, 23, UnitPmolL),
		UnitNmolL: Between(58, 154, UnitNmolL),
	}

	t3 := def("T3", CategoryThyroid, Between(80, 200, UnitNgDL),
		`free t3|ft3|triiodothyronine|t3`,
		units(unitNgDL, unitNmolL, unitPgML),
		"Triiodothyronine", "Free T3", "FT3")
	t3.UnitRanges = map[string]NormalRange{
		UnitNmolL: Between(1.2, 3.1, UnitNmolL),
		UnitPgML:  Between(2.3, 4.2, UnitPgML),
	}

	alt := def("ALT", CategoryLiverFunction, AtMost(41, UnitUL),
		`alanine aminotransferase|alanine transaminase|sgpt|alt`,
		units(unitUL),
		"Alanine Aminotransferase", "Alanine Transaminase", "SGPT")
	alt.UnitRanges = map[string]NormalRange{UnitIUL: AtMost(41, UnitIUL)}

	ast := def("AST", CategoryLiverFunction, AtMost(40, UnitUL),
		`aspartate aminotransferase|aspartate transaminase|sgot|ast`,
		units(unitUL),
		"Aspartate Aminotransferase", "Aspartate Transaminase", "SGOT")
	ast.UnitRanges = map[string]NormalRange{UnitIUL: AtMost(40, UnitIUL)}

	alp := def("Alkaline Phosphatase", CategoryLiverFunction, Between(44, 147, UnitUL),
		`alkaline phosphatase|alk\.? phos|alp`,
		units(unitUL),
		"ALP", "Alk Phos")
	alp.UnitRanges = map[string]NormalRange{UnitIUL: Between(44, 147, UnitIUL)}

	bilirubin := def("Bilirubin", CategoryLiverFunction, AtMost(1.2, UnitMgDL),
		`total bilirubin|bilirubin,?\s*total|bilirubin`,
		units(unitMgDL, unitUmolL),
		"Total Bilirubin", "Bilirubin Total")
	bilirubin.UnitRanges = map[string]NormalRange{UnitUmolL: AtMost(21, UnitUmolL)}
	bilirubin.Excludes = []string{"direct ", "indirect ", "conjugated ", "unconjugated "}

	egfr := def("eGFR", CategoryKidneyFunction, AtLeast(90, UnitEGFR),
		`egfr|estimated gfr|estimated glomerular filtration rate|gfr`,
		units(unitEGFR),
		"Estimated GFR", "GFR", "Estimated Glomerular Filtration Rate")
	egfr.UnitRanges = map[string]NormalRange{UnitMinLabel: AtLeast(90, UnitMinLabel)}

	vitaminD := def("Vitamin D", CategoryVitaminsMinerals, Between(30, 100, UnitNgML),
		`25[\s\-]?(?:hydroxy|oh)[\s\-]?vitamin d|vitamin d(?:3|\s*total)?|vit\.?\s?d`,
		units(unitNgML, unitNmolL),
		"25-Hydroxy Vitamin D", "25-OH Vitamin D", "Vit D", "Vitamin D Total")
	vitaminD.UnitRanges = map[string]NormalRange{UnitNmolL: Between(75, 250, UnitNmolL)}

	// Ferritin is the marker most often mangled by OCR in practice; its unit
	// fragment accepts "nal", "naml" and bare "ng".
	ferritin := def("Ferritin", CategoryVitaminsMinerals, Between(38, 380, UnitNgML),
		`serum ferritin|ferritin`,
		units(unitNgML, unitUgL),
		"Serum Ferritin")
	ferritin.UnitRanges = map[string]NormalRange{UnitUgL: Between(38, 380, UnitUgL)}

	iron := def("Iron", CategoryVitaminsMinerals, Between(60, 170, UnitUgDL),
		`serum iron|iron`,
		units(unitUgDL, unitUmolL),
		"Serum Iron")
	iron.UnitRanges = map[string]NormalRange{UnitUmolL: Between(10.7, 30.4, UnitUmolL)}

	b12 := def("B12", CategoryVitaminsMinerals, Between(200, 900, UnitPgML),
		`vitamin b12|vit\.?\s?b12|cobalamin|b12`,
		units(unitPgML, unitPmolL),
		"Vitamin B12", "Vit B12", "Cobalamin")
	b12.UnitRanges = map[string]NormalRange{UnitPmolL: Between(148, 664, UnitPmolL)}

	folate := def("Folate", CategoryVitaminsMinerals, Between(2.0, 20.0, UnitNgML),
		`serum folate|folate|folic acid`,
		units(unitNgML, unitNmolL),
		"Folic Acid", "Serum Folate")
	folate.UnitRanges = map[string]NormalRange{UnitNmolL: Between(4.5, 45.3, UnitNmolL)}

	crp := def("CRP", CategoryInflammatory, AtMost(3.0, UnitMgL),
		`hs[\s\-]?crp|crp|c[\s\-]reactive protein`,
		units(unitMgDL, unitMgL),
		"C-Reactive Protein", "C Reactive Protein", "hs-CRP")
	crp.UnitRanges = map[string]NormalRange{UnitMgDL: AtMost(0.3, UnitMgDL)}

	esr := def("ESR", CategoryInflammatory, AtMost(20, UnitMmHr),
		`erythrocyte sedimentation rate|sed(?:imentation)? rate|esr`,
		units(unitMmHr),
		"Erythrocyte Sedimentation Rate", "Sed Rate")

	troponin := def("Troponin", CategoryCardiac, AtMost(0.04, UnitNgML),
		`(?:cardiac |hs[\s\-]?)?troponin(?:[\s\-]?[it])?`,
		units(unitNgML, unitUgL),
		"Cardiac Troponin", "Troponin I", "Troponin T")
	troponin.UnitRanges = map[string]NormalRange{UnitUgL: AtMost(0.04, UnitUgL)}

	bnp := def("BNP", CategoryCardiac, AtMost(100, UnitPgML),
		`b[\s\-]type natriuretic peptide|brain natriuretic peptide|bnp`,
		units(unitPgML),
		"Brain Natriuretic Peptide", "B-type Natriuretic Peptide")
	bnp.Excludes = []string{"pro ", "pro-", "nt-pro", "nt-pro-"}

	return []MarkerDefinition{
		glucose, a1c, creatinine, bun,
		cholesterol, ldl, hdl, triglycerides,
		hemoglobin, hematocrit, wbc, platelets,
		tsh, t4, t3,
		alt, ast, alp, bilirubin,
		egfr,
		vitaminD, ferritin, iron, b12, folate,
		crp, esr,
		troponin, bnp,
	}
}
