// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes per-provider artifacts: a raw JSON dump and a
// formatted Markdown document under the shared output directory.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/deep-research/internal/gemini"
	"github.com/pdiddy/deep-research/internal/perplexity"
)

// Artifact file names. Provider-distinct so the two pipelines never
// write the same path.
const (
	PerplexityJSONFile   = "perplexity_full_response.json"
	PerplexityReportFile = "perplexity_report.md"
	GeminiJSONFile       = "gemini_full_response.json"
	GeminiReportFile     = "gemini_report.md"
)

const timestampFmt = "2006-01-02 15:04:05"

// CountOrNA renders an optional metric count, using "N/A" for values
// the provider did not report.
func CountOrNA(n *int) string {
	if n == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", n)
}

// WritePerplexity writes the raw JSON response and the Markdown report
// for a Perplexity result. It creates dir if absent and returns the
// report path.
func WritePerplexity(dir string, res *perplexity.Result, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, res.Raw, "", "  "); err != nil {
		// Keep the artifact even when the raw bytes resist re-indenting.
		indented.Reset()
		indented.Write(res.Raw)
	}
	jsonPath := filepath.Join(dir, PerplexityJSONFile)
	if err := os.WriteFile(jsonPath, indented.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", PerplexityJSONFile, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Perplexity Deep Research Report\n\n")
	fmt.Fprintf(&b, "*Generated: %s*\n\n", now.Format(timestampFmt))
	fmt.Fprintf(&b, "---\n\n%s\n\n---\n\n## Sources\n\n", res.Content)
	for i, src := range res.SearchResults {
		title := src.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, title, src.URL)
	}

	mdPath := filepath.Join(dir, PerplexityReportFile)
	if err := os.WriteFile(mdPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", PerplexityReportFile, err)
	}
	return mdPath, nil
}

// WriteGemini writes the interaction snapshot and the Markdown report
// for a completed Gemini interaction. It creates dir if absent and
// returns the report path.
func WriteGemini(dir string, it *gemini.Interaction, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	snapshot, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling interaction snapshot: %w", err)
	}
	jsonPath := filepath.Join(dir, GeminiJSONFile)
	if err := os.WriteFile(jsonPath, snapshot, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", GeminiJSONFile, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Google Gemini Deep Research Report\n\n")
	fmt.Fprintf(&b, "*Generated: %s*\n", now.Format(timestampFmt))
	fmt.Fprintf(&b, "*Interaction ID: %s*\n\n", it.ID)
	fmt.Fprintf(&b, "---\n\n%s\n", it.FinalText())

	mdPath := filepath.Join(dir, GeminiReportFile)
	if err := os.WriteFile(mdPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", GeminiReportFile, err)
	}
	return mdPath, nil
}
