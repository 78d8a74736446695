package types

import "time"

// HTTPConfig holds shared HTTP settings used by providers that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Deep research calls are slow;
	// the Perplexity default is ten minutes.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "deep-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PerplexityConfig holds settings for the Perplexity Sonar Deep Research pipeline.
type PerplexityConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the Perplexity model identifier (default "sonar-deep-research").
	Model string `json:"model" yaml:"model"`

	// Temperature is the sampling temperature (default 0.2).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// SearchMode selects the Perplexity search mode (default "web").
	SearchMode string `json:"search_mode" yaml:"search_mode"`

	// ReasoningEffort hints how much reasoning the model should spend
	// (default "high").
	ReasoningEffort string `json:"reasoning_effort" yaml:"reasoning_effort"`

	// APIKey authenticates against the Perplexity API. Never serialized.
	APIKey string `json:"-" yaml:"-"`
}

// GeminiConfig holds settings for the Google Gemini Deep Research pipeline.
type GeminiConfig struct {
	HTTPConfig `yaml:",inline"`

	// Agent is the Gemini deep-research agent identifier
	// (default "deep-research-pro-preview-12-2025").
	Agent string `json:"agent" yaml:"agent"`

	// ThinkingSummaries controls thinking-summary verbosity in the
	// interaction's agent config (default "auto").
	ThinkingSummaries string `json:"thinking_summaries" yaml:"thinking_summaries"`

	// PollInterval is the delay between status polls (default 10s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// MaxWait bounds the total time spent polling an interaction.
	// Zero means poll until the provider reports a terminal status.
	MaxWait time.Duration `json:"max_wait" yaml:"max_wait"`

	// APIKey authenticates against the Gemini API. Never serialized.
	APIKey string `json:"-" yaml:"-"`
}

// CompareConfig groups the settings for one comparison run.
type CompareConfig struct {
	Perplexity PerplexityConfig `json:"perplexity" yaml:"perplexity"`
	Gemini     GeminiConfig     `json:"gemini" yaml:"gemini"`

	// OutputDir is the directory artifacts are written to
	// (default "research_results").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}
