/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package markers

import (
	"fmt"
	"strings"
)

// Guidance is the curated text for one marker. Keys are lower-case canonical
// names or name fragments; an empty Low or High falls back to the generic
// template.
type Guidance struct {
	Keys        []string
	Description string
	Low         string
	High        string
}

var guidance = []Guidance{
	{
		Keys:        []string{"ferritin"},
		Description: "Ferritin is a protein that stores iron in your body. It is the best indicator of iron stores and helps diagnose iron deficiency.",
		Low: "Low ferritin levels indicate iron deficiency. Recommendations: " +
			"1) Increase iron-rich foods (red meat, spinach, beans, fortified cereals), " +
			"2) Consider iron supplements under medical supervision, " +
			"3) Avoid coffee or tea with meals as they inhibit iron absorption, " +
			"4) Include vitamin C-rich foods to enhance iron absorption, " +
			"5) Consult your doctor for proper iron supplementation.",
	},
	{
		Keys:        []string{"ldl", "low-density lipoprotein", "low density lipoprotein"},
		Description: "LDL (Low-Density Lipoprotein) is often called bad cholesterol because it can build up in artery walls, increasing heart disease risk.",
		High:        highCholesterol,
	},
	{
		Keys:        []string{"total cholesterol", "cholesterol"},
		Description: "Total cholesterol is the sum of the cholesterol carried in all lipoproteins in your blood.",
		High:        highCholesterol,
	},
	{
		Keys:        []string{"hdl", "high-density lipoprotein", "high density lipoprotein"},
		Description: "HDL (High-Density Lipoprotein) is good cholesterol that helps remove LDL from arteries, protecting against heart disease.",
		Low: "Low HDL cholesterol increases cardiovascular risk. Recommendations: " +
			"1) Exercise regularly (aerobic activity), " +
			"2) Quit smoking if applicable, " +
			"3) Include healthy fats (olive oil, nuts, avocados), " +
			"4) Limit refined carbohydrates, " +
			"5) Consider omega-3 supplements.",
	},
	{
		Keys:        []string{"hemoglobin a1c", "hba1c", "a1c"},
		Description: "HbA1c measures your average blood sugar over the past 2-3 months. It is the standard test for diabetes diagnosis and monitoring.",
		High: "High HbA1c indicates poor blood sugar control. Focus on diet, exercise and medication compliance, " +
			"and work closely with your healthcare team.",
	},
	{
		Keys:        []string{"glucose", "blood sugar"},
		Description: "Glucose is your body's main source of energy. High levels may indicate diabetes or prediabetes.",
		High: "High glucose levels may indicate prediabetes or diabetes. Recommendations: " +
			"1) Reduce refined carbohydrates and sugars, " +
			"2) Exercise regularly, " +
			"3) Maintain a healthy weight, " +
			"4) Monitor blood sugar levels, " +
			"5) Consult your doctor for proper diabetes management.",
	},
	{
		Keys:        []string{"tsh", "thyroid-stimulating hormone", "thyroid stimulating hormone"},
		Description: "TSH (Thyroid-Stimulating Hormone) controls thyroid function. High levels suggest hypothyroidism, low levels suggest hyperthyroidism.",
		High: "High TSH levels may indicate hypothyroidism. Recommendations: " +
			"1) Consult your doctor for thyroid function evaluation, " +
			"2) Consider thyroid hormone replacement therapy, " +
			"3) Maintain a balanced diet with adequate iodine, " +
			"4) Regular thyroid function monitoring, " +
			"5) Address any underlying causes.",
		Low: "Low TSH levels may indicate hyperthyroidism. Recommendations: " +
			"1) Consult your doctor for thyroid function evaluation, " +
			"2) Consider anti-thyroid medications if needed, " +
			"3) Monitor for symptoms of hyperthyroidism, " +
			"4) Regular thyroid function monitoring, " +
			"5) Address any underlying causes.",
	},
	{
		Keys:        []string{"vitamin d"},
		Description: "Vitamin D supports calcium absorption, bone health and immune function.",
		Low: "Low vitamin D is common and linked to bone and muscle weakness. Recommendations: " +
			"1) Get regular safe sun exposure, " +
			"2) Include oily fish, eggs and fortified foods, " +
			"3) Ask your doctor about vitamin D supplementation and a follow-up test.",
	},
	{
		Keys:        []string{"alt", "alanine aminotransferase", "ast", "aspartate aminotransferase"},
		Description: "ALT and AST are liver enzymes. Raised levels can indicate liver cell stress or injury.",
		High: "Raised liver enzymes can reflect liver stress. Recommendations: " +
			"1) Limit alcohol, " +
			"2) Review medications and supplements with your doctor, " +
			"3) Maintain a healthy weight, " +
			"4) Repeat the test as advised to confirm the trend.",
	},
	{
		Keys:        []string{"creatinine"},
		Description: "Creatinine is a waste product filtered by the kidneys and is used to estimate kidney function.",
		High: "High creatinine can indicate reduced kidney function. Recommendations: " +
			"1) Stay well hydrated, " +
			"2) Avoid unnecessary NSAID painkillers, " +
			"3) Discuss kidney function tests with your doctor.",
	},
	{
		Keys:        []string{"magnesium"},
		Description: "Magnesium supports muscle, nerve and heart function and helps regulate blood sugar and blood pressure.",
		Low: "Low magnesium can cause cramps and fatigue. Recommendations: " +
			"1) Eat magnesium-rich foods (leafy greens, nuts, seeds, whole grains), " +
			"2) Limit alcohol, " +
			"3) Ask your doctor whether a supplement is appropriate.",
	},
	{
		Keys:        []string{"iron"},
		Description: "Serum iron measures the iron circulating in your blood, bound to transferrin.",
		Low: "Low iron may point to iron deficiency. Recommendations: " +
			"1) Include iron-rich foods with a source of vitamin C, " +
			"2) Avoid tea or coffee with meals, " +
			"3) Have ferritin checked to assess iron stores.",
	},
	{
		Keys:        []string{"b12", "cobalamin"},
		Description: "Vitamin B12 is needed for red blood cell formation and nerve health.",
		Low: "Low vitamin B12 can cause anaemia and nerve symptoms. Recommendations: " +
			"1) Include animal products or fortified foods, " +
			"2) Discuss supplementation or injections with your doctor, " +
			"3) Ask about absorption problems if your diet is adequate.",
	},
	{
		Keys:        []string{"triglycerides", "triglyceride"},
		Description: "Triglycerides are the main form of fat stored in the body and carried in the blood.",
		High: "High triglycerides raise cardiovascular risk. Recommendations: " +
			"1) Cut down on sugar, refined carbohydrates and alcohol, " +
			"2) Exercise regularly, " +
			"3) Include omega-3 rich fish.",
	},
	{
		Keys:        []string{"crp", "c-reactive protein"},
		Description: "C-reactive protein rises with inflammation anywhere in the body.",
		High: "Raised CRP indicates inflammation. Recommendations: " +
			"1) Consider any recent infection or injury, " +
			"2) Discuss a repeat test with your doctor, " +
			"3) Persistent elevation warrants further evaluation.",
	},
}

const highCholesterol = "High cholesterol levels increase cardiovascular risk. Recommendations: " +
	"1) Reduce saturated and trans fats in your diet, " +
	"2) Increase fiber intake (oats, fruits, vegetables), " +
	"3) Exercise regularly (150 minutes/week), " +
	"4) Maintain a healthy weight, " +
	"5) Consider medication if lifestyle changes aren't sufficient."

// findGuidance matches name exactly against every key first, then by
// substring, so "LDL" never picks up the "Total Cholesterol" entry.
func findGuidance(name string) (Guidance, bool) {
	key := normalizeName(name)

	for _, g := range guidance {
		for _, k := range g.Keys {
			if key == k {
				return g, true
			}
		}
	}

	for _, g := range guidance {
		for _, k := range g.Keys {
			if len(k) > 3 && strings.Contains(key, k) {
				return g, true
			}
		}
	}

	return Guidance{}, false
}

// Recommend returns guidance for an abnormal value. Normal and unknown
// status produce an empty string.
func Recommend(name string, value float64, unit string, status Status, severity Severity) string {
	if status != StatusLow && status != StatusHigh {
		return ""
	}

	if g, ok := findGuidance(name); ok {
		text := g.High
		if status == StatusLow {
			text = g.Low
		}

		if text != "" {
			return text
		}
	}

	reading := formatNumber(value)
	if unit != "" {
		reading += " " + unit
	}

	if severity == SeverityNone {
		return fmt.Sprintf("Your %s level is %s (%s). Please consult your healthcare provider for personalized recommendations.",
			name, status, reading)
	}

	return fmt.Sprintf("Your %s level is %s (%s), a %s deviation from the reference range. "+
		"Please consult your healthcare provider for personalized recommendations.",
		name, status, reading, severity)
}

// Explain returns a short description of the marker, or an empty string for
// markers without curated text.
func Explain(name string) string {
	if g, ok := findGuidance(name); ok {
		return g.Description
	}

	return ""
}
