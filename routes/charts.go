/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/labmarkers/db"
	"github.com/humaidq/labmarkers/markers"
)

var statusColors = map[markers.Status]string{
	markers.StatusNormal: "#4caf50",
	markers.StatusLow:    "#2196f3",
	markers.StatusHigh:   "#f44336",
}

var referenceLineStyle = opts.MarkLineStyle{
	Symbol: []string{"none", "none"},
	LineStyle: &opts.LineStyle{
		Color: "rgba(128, 128, 128, 0.6)",
		Type:  "dashed",
		Width: 1.5,
	},
}

// boundPercent expresses a value as a percentage of the bound it is judged
// against: the upper bound when there is one, else the lower bound.
func boundPercent(value float64, r markers.NormalRange) (float64, bool) {
	bound := r.Max
	if bound == nil {
		bound = r.Min
	}

	if bound == nil || *bound == 0 {
		return 0, false
	}

	return value / *bound * 100, true
}

// NewMarkerChart builds a bar chart with one bar per bounded marker, scaled
// to its reference bound so markers in different units share an axis. Bars
// are coloured by status. It returns nil when no marker has a usable bound.
func NewMarkerChart(title string, result markers.DetectionResult) *charts.Bar {
	var (
		names []string
		bars  []opts.BarData
	)

	for _, m := range result.Markers {
		pct, ok := boundPercent(m.Value, m.NormalRange)
		if !ok {
			continue
		}

		names = append(names, m.Name)
		bars = append(bars, opts.BarData{
			Name:      m.Name,
			Value:     math.Round(pct*10) / 10,
			ItemStyle: &opts.ItemStyle{Color: statusColors[m.Status]},
		})
	}

	if len(bars) == 0 {
		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "value as % of reference bound",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"},
		}),
	)

	bar.SetXAxis(names).
		AddSeries("markers", bars).
		SetSeriesOptions(func(s *charts.SingleSeries) {
			s.MarkLines = &opts.MarkLines{
				Data:          []interface{}{opts.MarkLineNameYAxisItem{Name: "Bound", YAxis: 100}},
				MarkLineStyle: referenceLineStyle,
			}
		})

	return bar
}

// RenderMarkerChart writes the marker chart as a standalone HTML page. It
// writes nothing and returns false when there is nothing to chart.
func RenderMarkerChart(w io.Writer, title string, result markers.DetectionResult) (bool, error) {
	bar := NewMarkerChart(title, result)
	if bar == nil {
		return false, nil
	}

	return true, bar.Render(w)
}

func renderMarkerChartHTML(title string, result markers.DetectionResult) (string, error) {
	var buf bytes.Buffer

	if _, err := RenderMarkerChart(&buf, title, result); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderHistoryChart draws the stored readings of one marker over time with
// the catalog range, when known, as dashed reference lines.
func renderHistoryChart(name string, points []db.MarkerHistoryPoint, reference *markers.NormalRange) (string, error) {
	if len(points) == 0 {
		return "", nil
	}

	xAxis := make([]string, 0, len(points))
	yData := make([]opts.LineData, 0, len(points))

	for _, p := range points {
		xAxis = append(xAxis, p.Date.Format("2006-01-02"))
		yData = append(yData, opts.LineData{Value: p.Value})
	}

	unitLabel := points[len(points)-1].Unit

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: name,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: unitLabel,
		}),
	)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(true),
		}),
		charts.WithMarkPointNameTypeItemOpts(
			opts.MarkPointNameTypeItem{Name: "Max", Type: "max"},
			opts.MarkPointNameTypeItem{Name: "Min", Type: "min"},
		),
	}

	if reference != nil {
		var markLineItems []interface{}

		if reference.Min != nil {
			markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{Name: "Ref Min", YAxis: *reference.Min})
		}

		if reference.Max != nil {
			markLineItems = append(markLineItems, opts.MarkLineNameYAxisItem{Name: "Ref Max", YAxis: *reference.Max})
		}

		if len(markLineItems) > 0 {
			seriesOpts = append(seriesOpts, func(s *charts.SingleSeries) {
				s.MarkLines = &opts.MarkLines{
					Data:          markLineItems,
					MarkLineStyle: referenceLineStyle,
				}
			})
		}
	}

	line.SetXAxis(xAxis).
		AddSeries(name, yData).
		SetSeriesOptions(seriesOpts...)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}
