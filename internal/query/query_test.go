// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/deep-research/pkg/types"
)

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "query.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	q := Default()
	if q.Prompt == "" {
		t.Error("default prompt is empty")
	}
	if q.SystemPrompt == "" {
		t.Error("default system prompt is empty")
	}
	if !strings.Contains(q.Prompt, "AI regulation") {
		t.Errorf("default prompt missing expected topic: %q", q.Prompt[:60])
	}
}

func TestLoad(t *testing.T) {
	path := writeQueryFile(t, `
prompt: "Compare quantum computing roadmaps."
system_prompt: "You are a technology analyst."
perplexity:
  model: sonar-pro
  temperature: 0.5
gemini:
  agent: custom-agent
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	q := f.Query()
	if q.Prompt != "Compare quantum computing roadmaps." {
		t.Errorf("Prompt = %q", q.Prompt)
	}
	if q.SystemPrompt != "You are a technology analyst." {
		t.Errorf("SystemPrompt = %q", q.SystemPrompt)
	}
}

func TestLoadMissingPrompt(t *testing.T) {
	path := writeQueryFile(t, `system_prompt: "analyst"`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for missing prompt")
	}
	if !strings.Contains(err.Error(), "no prompt") {
		t.Errorf("error = %q, want substring 'no prompt'", err.Error())
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeQueryFile(t, "prompt: [unclosed")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error = %q, want substring 'parsing'", err.Error())
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyOverrides(t *testing.T) {
	f := &File{
		Prompt: "q",
		Perplexity: PerplexityOverrides{
			Model:      "sonar-pro",
			SearchMode: "academic",
		},
		Gemini: GeminiOverrides{Agent: "custom-agent"},
	}

	cfg := types.CompareConfig{
		Perplexity: types.PerplexityConfig{
			Model:           "sonar-deep-research",
			Temperature:     0.2,
			SearchMode:      "web",
			ReasoningEffort: "high",
		},
		Gemini: types.GeminiConfig{
			Agent:             "deep-research-pro-preview-12-2025",
			ThinkingSummaries: "auto",
		},
	}

	f.Apply(&cfg)

	if cfg.Perplexity.Model != "sonar-pro" {
		t.Errorf("Model = %q, want sonar-pro", cfg.Perplexity.Model)
	}
	if cfg.Perplexity.SearchMode != "academic" {
		t.Errorf("SearchMode = %q, want academic", cfg.Perplexity.SearchMode)
	}
	// Unset overrides leave defaults alone.
	if cfg.Perplexity.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", cfg.Perplexity.Temperature)
	}
	if cfg.Perplexity.ReasoningEffort != "high" {
		t.Errorf("ReasoningEffort = %q, want high", cfg.Perplexity.ReasoningEffort)
	}
	if cfg.Gemini.Agent != "custom-agent" {
		t.Errorf("Agent = %q, want custom-agent", cfg.Gemini.Agent)
	}
	if cfg.Gemini.ThinkingSummaries != "auto" {
		t.Errorf("ThinkingSummaries = %q, want auto", cfg.Gemini.ThinkingSummaries)
	}
}

func TestApplyTemperatureZero(t *testing.T) {
	zero := 0.0
	f := &File{Prompt: "q", Perplexity: PerplexityOverrides{Temperature: &zero}}
	cfg := types.CompareConfig{Perplexity: types.PerplexityConfig{Temperature: 0.2}}
	f.Apply(&cfg)
	if cfg.Perplexity.Temperature != 0 {
		t.Errorf("Temperature = %v, want explicit 0", cfg.Perplexity.Temperature)
	}
}
