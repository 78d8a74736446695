// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query loads research query definitions. A run uses either the
// built-in default query or a YAML query file that can also override
// per-provider request parameters.
package query

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deep-research/pkg/types"
)

// DefaultSystemPrompt frames the assistant role for providers that
// accept a system message.
const DefaultSystemPrompt = "You are a legal research assistant specializing in AI regulation. Provide comprehensive, well-cited reports with primary sources."

// DefaultPrompt is the built-in research question used when no query is
// configured.
const DefaultPrompt = `As of today, produce a fully-cited, primary-source-backed comparison of current AI regulation and enforcement across EU, US, UK, and Canada: include a table with (1) legal instrument name, (2) status, (3) scope, (4) key obligations, (5) effective dates / phase-in timeline, (6) penalties, (7) enforcement agencies + at least 3 concrete enforcement actions or official notices where applicable; then add a 'What changed in the last 90 days' section and a 'Conflicts/uncertainties' section listing claims that differ across sources and how you resolved them (or couldn't).`

// Default returns the built-in research query.
func Default() types.ResearchQuery {
	return types.ResearchQuery{
		Prompt:       DefaultPrompt,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// File is the on-disk representation of a research query. Provider
// sections are optional; zero values leave the configured defaults
// untouched.
type File struct {
	Prompt       string `yaml:"prompt"`
	SystemPrompt string `yaml:"system_prompt,omitempty"`

	Perplexity PerplexityOverrides `yaml:"perplexity,omitempty"`
	Gemini     GeminiOverrides     `yaml:"gemini,omitempty"`
}

// PerplexityOverrides adjusts Perplexity request parameters for one query.
type PerplexityOverrides struct {
	Model           string   `yaml:"model,omitempty"`
	Temperature     *float64 `yaml:"temperature,omitempty"`
	SearchMode      string   `yaml:"search_mode,omitempty"`
	ReasoningEffort string   `yaml:"reasoning_effort,omitempty"`
}

// GeminiOverrides adjusts Gemini request parameters for one query.
type GeminiOverrides struct {
	Agent             string `yaml:"agent,omitempty"`
	ThinkingSummaries string `yaml:"thinking_summaries,omitempty"`
}

// Load reads a query file from disk. The prompt must be non-empty.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	if strings.TrimSpace(f.Prompt) == "" {
		return nil, fmt.Errorf("query file %s has no prompt", path)
	}
	return &f, nil
}

// Query returns the research query carried by the file.
func (f *File) Query() types.ResearchQuery {
	return types.ResearchQuery{
		Prompt:       f.Prompt,
		SystemPrompt: f.SystemPrompt,
	}
}

// Apply overlays the file's provider overrides onto cfg.
func (f *File) Apply(cfg *types.CompareConfig) {
	if f.Perplexity.Model != "" {
		cfg.Perplexity.Model = f.Perplexity.Model
	}
	if f.Perplexity.Temperature != nil {
		cfg.Perplexity.Temperature = *f.Perplexity.Temperature
	}
	if f.Perplexity.SearchMode != "" {
		cfg.Perplexity.SearchMode = f.Perplexity.SearchMode
	}
	if f.Perplexity.ReasoningEffort != "" {
		cfg.Perplexity.ReasoningEffort = f.Perplexity.ReasoningEffort
	}
	if f.Gemini.Agent != "" {
		cfg.Gemini.Agent = f.Gemini.Agent
	}
	if f.Gemini.ThinkingSummaries != "" {
		cfg.Gemini.ThinkingSummaries = f.Gemini.ThinkingSummaries
	}
}
