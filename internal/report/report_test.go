// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deep-research/internal/gemini"
	"github.com/pdiddy/deep-research/internal/perplexity"
)

func intPtr(n int) *int { return &n }

var testTime = time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

func TestWritePerplexity(t *testing.T) {
	dir := t.TempDir()
	res := &perplexity.Result{
		Content: "The EU AI Act entered into force in 2024.",
		Usage: perplexity.Usage{
			PromptTokens: intPtr(100),
			TotalTokens:  intPtr(4000),
		},
		SearchResults: []perplexity.SearchResult{
			{Title: "EU AI Act", URL: "https://example.eu/ai-act"},
			{Title: "", URL: "https://example.org/untitled"},
			{Title: "FTC notice", URL: "https://example.gov/ftc"},
		},
		Raw: []byte(`{"usage":{"prompt_tokens":100,"total_tokens":4000}}`),
	}

	mdPath, err := WritePerplexity(dir, res, testTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, PerplexityReportFile), mdPath)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	body := string(md)

	// Verbatim content and header.
	assert.Contains(t, body, "# Perplexity Deep Research Report")
	assert.Contains(t, body, "*Generated: 2026-08-29 14:30:00*")
	assert.Contains(t, body, "The EU AI Act entered into force in 2024.")

	// Numbered citation list in input order, empty title defaulted.
	idx1 := strings.Index(body, "1. [EU AI Act](https://example.eu/ai-act)")
	idx2 := strings.Index(body, "2. [Untitled](https://example.org/untitled)")
	idx3 := strings.Index(body, "3. [FTC notice](https://example.gov/ftc)")
	assert.True(t, idx1 >= 0 && idx2 > idx1 && idx3 > idx2,
		"citations missing or out of order:\n%s", body)

	// Raw artifact round-trips to the same usage values.
	rawBytes, err := os.ReadFile(filepath.Join(dir, PerplexityJSONFile))
	require.NoError(t, err)
	var parsed struct {
		Usage perplexity.Usage `json:"usage"`
	}
	require.NoError(t, json.Unmarshal(rawBytes, &parsed))
	require.NotNil(t, parsed.Usage.PromptTokens)
	assert.Equal(t, 100, *parsed.Usage.PromptTokens)
	require.NotNil(t, parsed.Usage.TotalTokens)
	assert.Equal(t, 4000, *parsed.Usage.TotalTokens)
}

func TestWritePerplexityNoCitations(t *testing.T) {
	dir := t.TempDir()
	res := &perplexity.Result{Content: "short", Raw: []byte(`{}`)}

	mdPath, err := WritePerplexity(dir, res, testTime)
	require.NoError(t, err)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Sources")
	assert.NotContains(t, string(md), "1. [")
}

func TestWritePerplexityCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	res := &perplexity.Result{Content: "x", Raw: []byte(`{}`)}

	_, err := WritePerplexity(dir, res, testTime)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, PerplexityJSONFile))
	assert.NoError(t, err)
}

func TestWriteGemini(t *testing.T) {
	dir := t.TempDir()
	it := &gemini.Interaction{
		ID:     "int_42",
		Status: gemini.StatusCompleted,
		Outputs: []gemini.Output{
			{Type: "thinking", Text: "searching"},
			{Type: "text", Text: "REPORT"},
		},
		Usage: gemini.Usage{TotalTokens: intPtr(9000)},
	}

	mdPath, err := WriteGemini(dir, it, testTime)
	require.NoError(t, err)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	body := string(md)
	assert.Contains(t, body, "# Google Gemini Deep Research Report")
	assert.Contains(t, body, "*Interaction ID: int_42*")
	assert.Contains(t, body, "REPORT")

	// Snapshot round-trips to the same interaction.
	rawBytes, err := os.ReadFile(filepath.Join(dir, GeminiJSONFile))
	require.NoError(t, err)
	var parsed gemini.Interaction
	require.NoError(t, json.Unmarshal(rawBytes, &parsed))
	assert.Equal(t, "int_42", parsed.ID)
	assert.Equal(t, gemini.StatusCompleted, parsed.Status)
	assert.Len(t, parsed.Outputs, 2)
	require.NotNil(t, parsed.Usage.TotalTokens)
	assert.Equal(t, 9000, *parsed.Usage.TotalTokens)
}

func TestCountOrNA(t *testing.T) {
	assert.Equal(t, "N/A", CountOrNA(nil))
	assert.Equal(t, "42", CountOrNA(intPtr(42)))
}
