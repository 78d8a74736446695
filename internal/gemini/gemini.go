// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gemini drives Google Gemini Deep Research interactions: a
// background job is created, then its status is polled until it reaches
// a terminal state (completed or failed).
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiBase is the Gemini interactions endpoint. Declared as a var so
// tests can substitute an httptest server.
var apiBase = "https://generativelanguage.googleapis.com/v1beta/interactions"

// Interaction statuses. Anything outside the terminal pair is treated
// as in-flight; the provider's initial label is not assumed.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Client calls the Gemini interactions API. Out, when non-nil, receives
// per-poll progress lines.
type Client struct {
	Client *http.Client
	APIKey string
	Out    io.Writer
}

// Usage holds token accounting for one interaction. Fields the provider
// omits stay nil and render as "N/A".
type Usage struct {
	PromptTokens     *int `json:"prompt_tokens,omitempty"`
	CompletionTokens *int `json:"completion_tokens,omitempty"`
	TotalTokens      *int `json:"total_tokens,omitempty"`
}

// Output is one segment of interaction output. The last segment's text
// is the final report.
type Output struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// Interaction is the job handle and, once completed, its results.
type Interaction struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	Outputs []Output `json:"outputs,omitempty"`
	Usage   Usage    `json:"usage,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Terminal reports whether the interaction has reached a state after
// which polling is meaningless.
func (it *Interaction) Terminal() bool {
	return it.Status == StatusCompleted || it.Status == StatusFailed
}

// FinalText returns the last output segment's text, or "" when the
// interaction produced no outputs.
func (it *Interaction) FinalText() string {
	if len(it.Outputs) == 0 {
		return ""
	}
	return it.Outputs[len(it.Outputs)-1].Text
}

// CreateRequest is the wire body for starting an interaction.
type CreateRequest struct {
	Input       string      `json:"input"`
	Agent       string      `json:"agent"`
	Background  bool        `json:"background"`
	AgentConfig AgentConfig `json:"agent_config"`
}

// AgentConfig is the nested configuration object for a deep-research agent.
type AgentConfig struct {
	Type              string `json:"type"`
	ThinkingSummaries string `json:"thinking_summaries,omitempty"`
}

// Create submits a background deep-research interaction and returns its
// handle. The returned status may be any non-terminal label.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Interaction, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is empty")
	}
	if strings.TrimSpace(req.Input) == "" {
		return nil, fmt.Errorf("empty research prompt")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	return c.do(ctx, http.MethodPost, apiBase, bytes.NewReader(body))
}

// Get refreshes an interaction by identifier.
func (c *Client) Get(ctx context.Context, id string) (*Interaction, error) {
	if id == "" {
		return nil, fmt.Errorf("empty interaction id")
	}
	return c.do(ctx, http.MethodGet, apiBase+"/"+id, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*Interaction, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Gemini API request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Gemini response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Gemini API returned HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var it Interaction
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, fmt.Errorf("parsing Gemini response: %w", err)
	}
	return &it, nil
}

// Await polls an interaction on a fixed interval until it reaches a
// terminal status. A completed interaction is returned; a failed one
// returns an error carrying the provider's error detail. With maxWait
// zero the loop polls until the provider-side job itself gives up;
// cancelling ctx is the other way out, returning ctx.Err().
func (c *Client) Await(ctx context.Context, id string, interval, maxWait time.Duration) (*Interaction, error) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxWait)
		defer cancel()
	}

	start := time.Now()
	for {
		it, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		switch it.Status {
		case StatusCompleted:
			return it, nil
		case StatusFailed:
			return nil, fmt.Errorf("research failed: %s", it.Error)
		}

		if c.Out != nil {
			fmt.Fprintf(c.Out, "  Status: %s (%ds elapsed)...\n",
				it.Status, int(time.Since(start).Seconds()))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}
