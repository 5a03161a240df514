/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/humaidq/labmarkers/markers"
)

// OllamaConfig holds the Ollama server configuration
type OllamaConfig struct {
	URL   string
	Model string
}

// OpenAI-compatible request/response structures
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
	Delta   chatMessage `json:"delta,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const reportSystemPrompt = "You are a helpful medical assistant answering questions about a lab report. " +
	"Only use the marker values given. Be informative but not alarmist and do not diagnose. " +
	"Use basic markdown (italic, bold), but no headings."

// GetOllamaConfig loads Ollama configuration from environment variables
func GetOllamaConfig() (*OllamaConfig, error) {
	url := os.Getenv("OLLAMA_URL")
	model := os.Getenv("OLLAMA_MODEL")

	if url == "" || model == "" {
		return nil, ErrOllamaConfigIncomplete
	}

	return &OllamaConfig{URL: url, Model: model}, nil
}

// buildReportPrompt lists the records relevant to the question, falling back
// to the whole report when the question names no marker.
func buildReportPrompt(cat *markers.Catalog, report *Report, question string) string {
	var sb strings.Builder

	if report.Title != "" {
		fmt.Fprintf(&sb, "Report: %s\n", report.Title)
	}

	fmt.Fprintf(&sb, "Date: %s\n\nMarkers:\n", report.Date().Format("January 2, 2006"))

	for _, r := range cat.RelevantRecords(report.Markers, question) {
		fmt.Fprintf(&sb, "- %s: %s %s", r.Name, formatValue(r.Value), r.Unit)

		if rng := r.NormalRange.String(); rng != "" {
			fmt.Fprintf(&sb, " (reference %s, %s)", rng, r.RangeConfidence)
		}

		if r.IsAbnormal() {
			fmt.Fprintf(&sb, " [%s", strings.ToUpper(string(r.Status)))
			if r.Severity != markers.SeverityNone {
				fmt.Fprintf(&sb, ", %s", r.Severity)
			}
			sb.WriteString("]")
		}

		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n---\n\nQuestion: %s\n", strings.TrimSpace(question))

	return sb.String()
}

func formatValue(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

// StreamReportAnswer asks Ollama a question about a stored report. The
// onChunk callback is called for each chunk of text received.
func StreamReportAnswer(ctx context.Context, report *Report, question string, onChunk func(string) error) error {
	config, err := GetOllamaConfig()
	if err != nil {
		return err
	}

	prompt := buildReportPrompt(markers.DefaultCatalog(), report, question)

	return streamChatCompletion(ctx, config, reportSystemPrompt, prompt, onChunk)
}

func streamChatCompletion(ctx context.Context, config *OllamaConfig, system, user string, onChunk func(string) error) error {
	jsonBody, err := json.Marshal(chatRequest{
		Model:  config.Model,
		Stream: true,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(config.URL, "/") + "/v1/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 300 * time.Second}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Ollama: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("Failed to close Ollama response", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %d %s", ErrOllamaStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	reader := bufio.NewReader(resp.Body)

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read stream: %w", err)
		}

		done, chunkErr := handleStreamLine(string(line), onChunk)
		if chunkErr != nil {
			return chunkErr
		}

		if done || errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// handleStreamLine processes one SSE line ("data: {...}") and reports
// whether the stream has ended.
func handleStreamLine(line string, onChunk func(string) error) (bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "data: ") {
		return false, nil
	}

	data := strings.TrimPrefix(line, "data: ")
	if data == "[DONE]" {
		return true, nil
	}

	var chatResp chatResponse
	if err := json.Unmarshal([]byte(data), &chatResp); err != nil {
		logger.Debug("Skipping malformed stream chunk", "error", err)
		return false, nil
	}

	if chatResp.Error != nil {
		return false, fmt.Errorf("%w: %s", ErrOllamaStatus, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Delta.Content == "" {
		return false, nil
	}

	return false, onChunk(chatResp.Choices[0].Delta.Content)
}
