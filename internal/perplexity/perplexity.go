// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package perplexity submits deep-research queries to the Perplexity
// Sonar API. The call is synchronous: one POST blocks until the report
// is finished, so the client timeout must be generous.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// apiBase is the Perplexity chat completions endpoint. Declared as a
// var so tests can substitute an httptest server.
var apiBase = "https://api.perplexity.ai/chat/completions"

// Client calls the Perplexity API.
type Client struct {
	Client *http.Client
	APIKey string
}

// Usage holds token and search accounting for one research call. Fields
// the provider omits stay nil and render as "N/A".
type Usage struct {
	PromptTokens     *int `json:"prompt_tokens,omitempty"`
	CompletionTokens *int `json:"completion_tokens,omitempty"`
	TotalTokens      *int `json:"total_tokens,omitempty"`
	NumSearchQueries *int `json:"num_search_queries,omitempty"`
}

// SearchResult is one cited source from the provider, in citation order.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Result is the decoded outcome of one research call. Raw preserves the
// complete response body for the JSON artifact.
type Result struct {
	Content       string
	Usage         Usage
	SearchResults []SearchResult
	Raw           json.RawMessage
}

// Perplexity chat completions JSON structures.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model           string        `json:"model"`
	Messages        []chatMessage `json:"messages"`
	SearchMode      string        `json:"search_mode"`
	Temperature     float64       `json:"temperature"`
	ReasoningEffort string        `json:"reasoning_effort"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage         Usage          `json:"usage"`
	SearchResults []SearchResult `json:"search_results"`
}

// Research performs one blocking deep-research call and decodes the
// response. A missing content or usage field is not an error; absent
// values stay at their zero value. Non-2xx responses return an error
// carrying the status and the response body text for diagnosis.
func (c *Client) Research(ctx context.Context, query types.ResearchQuery, cfg types.PerplexityConfig) (*Result, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("Perplexity API key is empty")
	}
	if strings.TrimSpace(query.Prompt) == "" {
		return nil, fmt.Errorf("empty research prompt")
	}

	var messages []chatMessage
	if query.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: query.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: query.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:           cfg.Model,
		Messages:        messages,
		SearchMode:      cfg.SearchMode,
		Temperature:     cfg.Temperature,
		ReasoningEffort: cfg.ReasoningEffort,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Perplexity API request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Perplexity response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Perplexity API returned HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("parsing Perplexity response: %w", err)
	}

	result := &Result{
		Usage:         cr.Usage,
		SearchResults: cr.SearchResults,
		Raw:           raw,
	}
	if len(cr.Choices) > 0 {
		result.Content = cr.Choices[0].Message.Content
	}
	return result, nil
}
