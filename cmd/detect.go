/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/labmarkers/db"
	"github.com/humaidq/labmarkers/markers"
	"github.com/humaidq/labmarkers/routes"
	"github.com/humaidq/labmarkers/utils"
)

var CmdDetect = &cli.Command{
	Name:      "detect",
	Usage:     "Detect health markers in a lab report",
	ArgsUsage: "[file]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "report file to read, or - for stdin",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "input format: text, org or html (default: from the file extension)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print the detection result as JSON",
		},
		&cli.BoolFlag{
			Name:  "abnormal",
			Usage: "only print markers outside their normal range",
		},
		&cli.StringFlag{
			Name:  "chart",
			Usage: "write an HTML bar chart of the markers to this file",
		},
		&cli.IntFlag{
			Name:    "range-window",
			Value:   defaultRangeWindow,
			Sources: cli.EnvVars("RANGE_WINDOW"),
			Usage:   "bytes after a marker searched for a printed reference range",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "store the report in the database",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "title to store the report under",
		},
		&cli.StringFlag{
			Name:    "database-url",
			Sources: cli.EnvVars("DATABASE_URL"),
			Usage:   "PostgreSQL connection string, required with --save",
		},
	},
	Action: detect,
}

// readInput returns the report content and the format implied by its path.
func readInput(cmd *cli.Command) (string, utils.Format, error) {
	path := cmd.String("input")
	if path == "" {
		path = cmd.Args().First()
	}

	var (
		content []byte
		err     error
	)

	switch path {
	case "", "-":
		if path == "" && isTerminal(os.Stdin) {
			return "", "", errNoInput
		}

		content, err = io.ReadAll(cmd.Root().Reader)
	default:
		content, err = os.ReadFile(path)
	}

	if err != nil {
		return "", "", fmt.Errorf("failed to read report: %w", err)
	}

	return string(content), utils.FormatFromPath(path), nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

func detect(ctx context.Context, cmd *cli.Command) error {
	content, pathFormat, err := readInput(cmd)
	if err != nil {
		return err
	}

	format := pathFormat
	if name := cmd.String("format"); name != "" {
		if format, err = utils.ParseFormat(name); err != nil {
			return err
		}
	}

	text, err := utils.ExtractText(format, content)
	if err != nil {
		return err
	}

	detector := markers.NewDetector(nil, markers.WithRangeWindow(int(cmd.Int("range-window"))))
	result := detector.Detect(text)

	title := cmd.String("title")
	if title == "" && format == utils.FormatOrg {
		title = utils.ExtractTitle(content)
	}

	if path := cmd.String("chart"); path != "" {
		if err := writeChart(path, title, result); err != nil {
			return err
		}
	}

	if cmd.Bool("save") {
		if err := saveReport(ctx, cmd, title, format, content, result); err != nil {
			return err
		}
	}

	shown := result
	if cmd.Bool("abnormal") {
		shown = markers.DetectionResult{Markers: result.Abnormal()}
	}

	out := cmd.Root().Writer

	if cmd.Bool("json") {
		if shown.Markers == nil {
			shown.Markers = []markers.HealthMarkerRecord{}
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(shown)
	}

	_, err = fmt.Fprintln(out, renderTable(shown))

	return err
}

func writeChart(path, title string, result markers.DetectionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}

	drawn, renderErr := routes.RenderMarkerChart(f, title, result)

	if err := f.Close(); err != nil && renderErr == nil {
		renderErr = err
	}

	if renderErr != nil {
		return fmt.Errorf("failed to write chart: %w", renderErr)
	}

	if !drawn {
		appLogger.Warn("No marker has a reference range to chart", "path", path)
	}

	return nil
}

func saveReport(ctx context.Context, cmd *cli.Command, title string, format utils.Format, content string, result markers.DetectionResult) error {
	databaseURL := cmd.String("database-url")
	if databaseURL == "" {
		return errDatabaseURLRequired
	}

	if err := db.Init(ctx, databaseURL); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.SyncSchema(ctx, nil); err != nil {
		return fmt.Errorf("failed to sync schema: %w", err)
	}

	input := db.CreateReportInput{
		Title:        title,
		SourceFormat: string(format),
		RawText:      content,
		Result:       result,
	}

	if format == utils.FormatOrg {
		if date, ok := utils.ExtractDateDirective(content); ok {
			input.CollectedOn = &date
		}
	}

	id, created, err := db.CreateReport(ctx, input)
	if err != nil {
		return err
	}

	if created {
		appLogger.Info("Saved report", "report_id", id)
	} else {
		appLogger.Info("Report was already saved", "report_id", id)
	}

	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	lowStyle    = cellStyle.Foreground(lipgloss.Color("33"))
	highStyle   = cellStyle.Foreground(lipgloss.Color("196"))
)

// renderTable lays the records out one per row with the status column
// coloured when the terminal supports it.
func renderTable(result markers.DetectionResult) string {
	if result.Len() == 0 {
		return "No health markers found."
	}

	rows := make([][]string, 0, result.Len())
	for _, m := range result.Markers {
		rows = append(rows, []string{
			m.Name,
			strconv.FormatFloat(m.Value, 'f', -1, 64),
			m.Unit,
			m.NormalRange.String(),
			string(m.RangeConfidence),
			string(m.Status),
			string(m.Severity),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MARKER", "VALUE", "UNIT", "RANGE", "SOURCE", "STATUS", "SEVERITY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			if col == 5 {
				switch result.Markers[row].Status {
				case markers.StatusLow:
					return lowStyle
				case markers.StatusHigh:
					return highStyle
				}
			}

			return cellStyle
		})

	return t.String() + fmt.Sprintf("\n%d markers, %d abnormal", result.Len(), len(result.Abnormal()))
}
