package types

// ResearchQuery is the natural-language prompt submitted verbatim to
// both providers. It is built once at startup and never mutated.
type ResearchQuery struct {
	// Prompt is the user-role research question.
	Prompt string `json:"prompt" yaml:"prompt"`

	// SystemPrompt frames the assistant role for providers that accept
	// a system message (Perplexity). Gemini receives only Prompt.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}
