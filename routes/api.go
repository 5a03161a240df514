/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/flamego/flamego"

	"github.com/humaidq/labmarkers/db"
	"github.com/humaidq/labmarkers/markers"
	"github.com/humaidq/labmarkers/utils"
)

type detectRequest struct {
	Title  string `json:"title"`
	Format string `json:"format"`
	Text   string `json:"text"`
	Save   bool   `json:"save"`
}

type detectResponse struct {
	markers.DetectionResult

	Abnormal int    `json:"abnormal"`
	ReportID string `json:"report_id,omitempty"`
	Created  bool   `json:"created,omitempty"`
}

type markerInfo struct {
	Name        string              `json:"name"`
	Category    markers.Category    `json:"category"`
	Aliases     []string            `json:"aliases"`
	NormalRange markers.NormalRange `json:"normal_range"`
	Explanation string              `json:"explanation,omitempty"`
}

func writeJSON(c flamego.Context, status int, v interface{}) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)

	if err := json.NewEncoder(c.ResponseWriter()).Encode(v); err != nil {
		logger.Warn("Failed to write JSON response", "error", err)
	}
}

func writeJSONError(c flamego.Context, status int, message string) {
	writeJSON(c, status, map[string]string{"error": message})
}

// readDetectRequest accepts either a JSON body or the raw report as the
// request body, in which case the format comes from the "format" query
// parameter.
func readDetectRequest(c flamego.Context) (detectRequest, error) {
	var req detectRequest

	body, err := io.ReadAll(io.LimitReader(c.Request().Body().ReadCloser(), MaxReportBytes+1))
	if err != nil {
		return req, err
	}

	if len(body) > MaxReportBytes {
		return req, errInputTooLarge
	}

	mediaType, _, _ := mime.ParseMediaType(c.Request().Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.Unmarshal(body, &req); err != nil {
			return req, err
		}

		return req, nil
	}

	req.Text = string(body)
	req.Format = c.Query("format")
	req.Title = c.Query("title")
	req.Save = c.QueryBool("save")

	return req, nil
}

// APIDetect runs detection over a posted report and returns the records as
// JSON. Setting "save" stores the report when storage is configured.
func APIDetect(c flamego.Context, det *markers.Detector) {
	req, err := readDetectRequest(c)
	if err != nil {
		if errors.Is(err, errInputTooLarge) {
			writeJSONError(c, http.StatusRequestEntityTooLarge, err.Error())
		} else {
			writeJSONError(c, http.StatusBadRequest, "invalid request body")
		}

		return
	}

	sub, err := parseSubmission(req.Title, req.Format, req.Text)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errInputTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}

		writeJSONError(c, status, apiErrorMessage(err))

		return
	}

	result := det.Detect(sub.Text)
	resp := detectResponse{DetectionResult: result, Abnormal: len(result.Abnormal())}

	if req.Save {
		if !db.Ready() {
			writeJSONError(c, http.StatusServiceUnavailable, "report storage is not configured")
			return
		}

		id, created, err := db.CreateReport(c.Request().Context(), db.CreateReportInput{
			Title:        sub.Title,
			SourceFormat: string(sub.Format),
			RawText:      sub.RawText,
			CollectedOn:  sub.CollectedOn,
			Result:       result,
		})
		if err != nil {
			logger.Error("Error saving report", "error", err)
			writeJSONError(c, http.StatusInternalServerError, "failed to save report")

			return
		}

		resp.ReportID = id.String()
		resp.Created = created
	}

	if resp.Markers == nil {
		resp.Markers = []markers.HealthMarkerRecord{}
	}

	writeJSON(c, http.StatusOK, resp)
}

func apiErrorMessage(err error) string {
	switch {
	case errors.Is(err, errEmptyInput), errors.Is(err, errInputTooLarge):
		return err.Error()
	case errors.Is(err, utils.ErrUnsupportedFormat):
		return "unsupported format"
	default:
		return "report could not be parsed"
	}
}

// APIMarkers lists the catalog the detector currently uses.
func APIMarkers(c flamego.Context, det *markers.Detector) {
	defs := det.Catalog().Definitions()
	out := make([]markerInfo, 0, len(defs))

	for _, def := range defs {
		aliases := def.Aliases
		if aliases == nil {
			aliases = []string{}
		}

		out = append(out, markerInfo{
			Name:        def.Name,
			Category:    def.Category,
			Aliases:     aliases,
			NormalRange: def.Range,
			Explanation: markers.Explain(def.Name),
		})
	}

	writeJSON(c, http.StatusOK, out)
}

// APIMentions returns the markers a free-form question refers to.
func APIMentions(c flamego.Context, det *markers.Detector) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		writeJSONError(c, http.StatusBadRequest, errMissingQuestion.Error())
		return
	}

	mentioned := det.Catalog().MentionedMarkers(q)
	if mentioned == nil {
		mentioned = []string{}
	}

	writeJSON(c, http.StatusOK, map[string]interface{}{"markers": mentioned})
}
