/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/labmarkers/db"
	"github.com/humaidq/labmarkers/markers"
	"github.com/humaidq/labmarkers/utils"
)

// MaxReportBytes caps pasted or uploaded report text.
const MaxReportBytes = 1 << 20

const recentReportLimit = 5

// reportSubmission is a report as submitted by a form or API call, already
// reduced to plain text.
type reportSubmission struct {
	Title       string
	Format      utils.Format
	RawText     string
	Text        string
	CollectedOn *time.Time
}

// parseSubmission converts raw content in the given format to plain text and
// fills in the title and collection date an org document may carry.
func parseSubmission(title, formatName, content string) (*reportSubmission, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errEmptyInput
	}

	if len(content) > MaxReportBytes {
		return nil, errInputTooLarge
	}

	format, err := utils.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	text, err := utils.ExtractText(format, content)
	if err != nil {
		return nil, err
	}

	sub := &reportSubmission{
		Title:   strings.TrimSpace(title),
		Format:  format,
		RawText: content,
		Text:    text,
	}

	if format == utils.FormatOrg {
		if sub.Title == "" {
			sub.Title = utils.ExtractTitle(content)
		}

		if date, ok := utils.ExtractDateDirective(content); ok {
			sub.CollectedOn = &date
		}
	}

	return sub, nil
}

// readUpload returns the contents of the optional "file" form field and the
// format implied by its name.
func readUpload(r *http.Request) (string, utils.Format, bool, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", "", false, nil
		}

		return "", "", false, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warn("Failed to close uploaded report", "error", err)
		}
	}()

	content, err := io.ReadAll(io.LimitReader(file, MaxReportBytes+1))
	if err != nil {
		return "", "", false, err
	}

	if len(content) > MaxReportBytes {
		return "", "", false, errInputTooLarge
	}

	return string(content), utils.FormatFromPath(header.Filename), true, nil
}

func submissionFromForm(r *http.Request) (*reportSubmission, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, 2*MaxReportBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(MaxReportBytes); err != nil {
			return nil, fmt.Errorf("failed to parse form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	content := r.Form.Get("text")
	formatName := r.Form.Get("format")

	upload, uploadFormat, ok, err := readUpload(r)
	if err != nil {
		return nil, err
	}

	if ok && strings.TrimSpace(upload) != "" {
		content = upload
		if formatName == "" {
			formatName = string(uploadFormat)
		}
	}

	return parseSubmission(r.Form.Get("title"), formatName, content)
}

// submissionErrorMessage maps a submission error to text safe to show.
func submissionErrorMessage(err error) string {
	switch {
	case errors.Is(err, errEmptyInput):
		return "Paste a report or choose a file first"
	case errors.Is(err, errInputTooLarge):
		return "The report is too large"
	case errors.Is(err, utils.ErrUnsupportedFormat):
		return "Unsupported report format"
	case errors.Is(err, utils.ErrOrgParse), errors.Is(err, utils.ErrHTMLParse):
		return "The report could not be read in the chosen format"
	default:
		return "Failed to read the submitted report"
	}
}

// Home renders the submission form and, when storage is configured, the most
// recent reports.
func Home(c flamego.Context, t template.Template, data template.Data) {
	data["IsHome"] = true
	data["Formats"] = []utils.Format{utils.FormatText, utils.FormatOrg, utils.FormatHTML}

	if db.Ready() {
		reports, err := db.ListReports(c.Request().Context())
		if err != nil {
			logger.Error("Error fetching recent reports", "error", err)
		} else {
			if len(reports) > recentReportLimit {
				reports = reports[:recentReportLimit]
			}

			data["RecentReports"] = reports
		}
	}

	t.HTML(http.StatusOK, "home")
}

// DetectForm runs detection on a submitted report. With "save" set and
// storage configured, the report is stored and the browser is sent to it.
// Otherwise the results are rendered directly.
func DetectForm(c flamego.Context, s session.Session, t template.Template, data template.Data, det *markers.Detector) {
	sub, err := submissionFromForm(c.Request().Request)
	if err != nil {
		logger.Warn("Rejected report submission", "error", err)
		SetErrorFlash(s, submissionErrorMessage(err))
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	result := det.Detect(sub.Text)

	logger.Info("Detected markers", "format", sub.Format, "markers", result.Len(), "abnormal", len(result.Abnormal()))

	if c.Request().Form.Get("save") != "" {
		if !db.Ready() {
			data["Notice"] = "Report storage is not configured, so this report was not saved."
		} else {
			id, created, err := db.CreateReport(c.Request().Context(), db.CreateReportInput{
				Title:        sub.Title,
				SourceFormat: string(sub.Format),
				RawText:      sub.RawText,
				CollectedOn:  sub.CollectedOn,
				Result:       result,
			})
			if err != nil {
				logger.Error("Error saving report", "error", err)
				data["Notice"] = "The report could not be saved."
			} else {
				if created {
					SetSuccessFlash(s, "Report saved")
				} else {
					SetInfoFlash(s, "This report was already saved")
				}

				c.Redirect("/reports/"+id.String(), http.StatusSeeOther)

				return
			}
		}
	}

	renderResults(t, data, sub.Title, sub.Text, result)
}

func renderResults(t template.Template, data template.Data, title, text string, result markers.DetectionResult) {
	if title == "" {
		title = "Detected markers"
	}

	data["PageTitle"] = title
	data["Result"] = result
	data["Abnormal"] = result.Abnormal()
	data["SourceText"] = text

	chart, err := renderMarkerChartHTML(title, result)
	if err != nil {
		logger.Error("Error rendering marker chart", "error", err)
	} else if chart != "" {
		data["ChartHTML"] = htmltemplate.HTML(chart)
	}

	t.HTML(http.StatusOK, "results")
}
