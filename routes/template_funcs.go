/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	htmltemplate "html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/humaidq/labmarkers/markers"
)

// TemplateFuncs returns helpers used by the page templates.
func TemplateFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"formatValue": formatValue,
		"formatDate":  formatDate,
		"statusClass": statusClass,
		"markerPath":  markerPath,
		"join":        strings.Join,
	}
}

func formatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}

func markerPath(name string) string {
	return "/markers/" + url.PathEscape(name)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// statusClass is the CSS class for a marker status.
func statusClass(s markers.Status) string {
	switch s {
	case markers.StatusLow, markers.StatusHigh:
		return "status-" + string(s)
	case markers.StatusNormal:
		return "status-normal"
	default:
		return "status-unknown"
	}
}
