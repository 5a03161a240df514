/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"

	"github.com/humaidq/labmarkers/db"
	"github.com/humaidq/labmarkers/markers"
)

// MarkerSummary is a row on the markers page.
type MarkerSummary struct {
	Name     string
	Category markers.Category
	Range    string
	Readings int
}

func parseReportID(c flamego.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errInvalidReport
	}

	return id, nil
}

// ListReportsPage renders every stored report.
func ListReportsPage(c flamego.Context, t template.Template, data template.Data) {
	data["IsReports"] = true

	reports, err := db.ListReports(c.Request().Context())
	if err != nil {
		logger.Error("Error fetching reports", "error", err)
		data["Error"] = "Failed to load reports"
	} else {
		data["Reports"] = reports
	}

	t.HTML(http.StatusOK, "reports")
}

// ViewReport renders a stored report with its chart.
func ViewReport(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	id, err := parseReportID(c)
	if err != nil {
		SetErrorFlash(s, "Report not found")
		c.Redirect("/reports", http.StatusSeeOther)

		return
	}

	report, err := db.GetReport(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, db.ErrReportNotFound) {
			logger.Error("Error fetching report", "report_id", id, "error", err)
		}

		SetErrorFlash(s, "Report not found")
		c.Redirect("/reports", http.StatusSeeOther)

		return
	}

	data["IsReports"] = true
	data["Report"] = report
	data["ReportID"] = report.ID.String()
	data["AskEnabled"] = ollamaConfigured()

	title := report.Title
	if title == "" {
		title = "Report from " + report.Date().Format("January 2, 2006")
	}

	renderResults(t, data, title, report.RawText, report.Result())
}

// DeleteReport removes a stored report.
func DeleteReport(c flamego.Context, s session.Session) {
	id, err := parseReportID(c)
	if err != nil {
		SetErrorFlash(s, "Report not found")
		c.Redirect("/reports", http.StatusSeeOther)

		return
	}

	if err := db.DeleteReport(c.Request().Context(), id); err != nil {
		logger.Error("Error deleting report", "report_id", id, "error", err)
		SetErrorFlash(s, "Failed to delete report")
		c.Redirect("/reports/"+id.String(), http.StatusSeeOther)

		return
	}

	logger.Info("Deleted report", "report_id", id)
	SetSuccessFlash(s, "Report deleted")
	c.Redirect("/reports", http.StatusSeeOther)
}

func ollamaConfigured() bool {
	_, err := db.GetOllamaConfig()
	return err == nil
}

// AskReport streams an answer to a question about a stored report as
// server-sent events. Chunks arrive as "message" events, failures as an
// "error" event and the end of the answer as a "done" event.
func AskReport(c flamego.Context) {
	ctx := c.Request().Context()
	w := c.ResponseWriter()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sendEvent := func(event, data string) error {
		var sb strings.Builder

		if event != "" {
			sb.WriteString("event: " + event + "\n")
		}

		sb.WriteString("data: " + strings.ReplaceAll(data, "\n", "\ndata: ") + "\n\n")

		if _, err := w.Write([]byte(sb.String())); err != nil {
			return err
		}

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		return nil
	}

	sendError := func(message string) {
		if err := sendEvent("error", message); err != nil {
			logger.Debug("Failed to send error event", "error", err)
		}
	}

	id, err := parseReportID(c)
	if err != nil {
		sendError("Report not found")
		return
	}

	question := strings.TrimSpace(c.Query("q"))
	if question == "" {
		sendError(errMissingQuestion.Error())
		return
	}

	report, err := db.GetReport(ctx, id)
	if err != nil {
		logger.Error("Error fetching report for question", "report_id", id, "error", err)
		sendError("Report not found")

		return
	}

	err = db.StreamReportAnswer(ctx, report, question, func(chunk string) error {
		return sendEvent("", chunk)
	})
	if err != nil {
		logger.Error("Error answering report question", "report_id", id, "error", err)

		if errors.Is(err, db.ErrOllamaConfigIncomplete) {
			sendError("Questions are not configured on this server")
		} else {
			sendError("Failed to answer the question")
		}

		return
	}

	if err := sendEvent("done", ""); err != nil {
		logger.Debug("Failed to send done event", "error", err)
	}
}

// ListMarkersPage lists catalog markers together with how many stored
// readings each has.
func ListMarkersPage(c flamego.Context, t template.Template, data template.Data, det *markers.Detector) {
	data["IsMarkers"] = true

	counts, err := db.ListStoredMarkerNames(c.Request().Context())
	if err != nil {
		logger.Error("Error fetching marker counts", "error", err)
		data["Error"] = "Failed to load stored readings"
	}

	data["Markers"] = summarizeMarkers(det.Catalog(), counts)

	t.HTML(http.StatusOK, "markers")
}

// summarizeMarkers lists catalog markers in catalog order followed by any
// stored names outside the catalog, sorted by name.
func summarizeMarkers(cat *markers.Catalog, counts map[string]int) []MarkerSummary {
	seen := make(map[string]bool)

	var out []MarkerSummary

	for _, def := range cat.Definitions() {
		seen[def.Name] = true
		out = append(out, MarkerSummary{
			Name:     def.Name,
			Category: def.Category,
			Range:    def.Range.String(),
			Readings: counts[def.Name],
		})
	}

	var extra []MarkerSummary

	for name, n := range counts {
		if !seen[name] {
			extra = append(extra, MarkerSummary{Name: name, Readings: n})
		}
	}

	sort.Slice(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })

	return append(out, extra...)
}

// MarkerHistory charts every stored reading of one marker.
func MarkerHistory(c flamego.Context, s session.Session, t template.Template, data template.Data, det *markers.Detector) {
	ctx := c.Request().Context()
	name := c.Param("name")

	points, err := db.ListMarkerHistory(ctx, name)
	if err != nil {
		logger.Error("Error fetching marker history", "marker", name, "error", err)
		SetErrorFlash(s, "Failed to load marker history")
		c.Redirect("/markers", http.StatusSeeOther)

		return
	}

	data["IsMarkers"] = true
	data["MarkerName"] = name
	data["Points"] = points
	data["Explanation"] = markers.Explain(name)

	var reference *markers.NormalRange

	if def, err := db.GetMarkerDefinition(ctx, name); err == nil {
		r := def.Range()
		reference = &r
		data["MarkerName"] = def.Name
		data["Category"] = def.Category
	} else if def, ok := det.Catalog().Lookup(name); ok {
		reference = &def.Range
		data["MarkerName"] = def.Name
		data["Category"] = def.Category
	} else if !errors.Is(err, db.ErrMarkerDefinitionNotFound) {
		logger.Warn("Error fetching marker definition", "marker", name, "error", err)
	}

	if reference != nil && reference.HasBounds() {
		data["Reference"] = reference.String()
	}

	chart, err := renderHistoryChart(data["MarkerName"].(string), points, reference)
	if err != nil {
		logger.Error("Error rendering history chart", "marker", name, "error", err)
	} else if chart != "" {
		data["ChartHTML"] = htmltemplate.HTML(chart)
	}

	t.HTML(http.StatusOK, "marker_history")
}
