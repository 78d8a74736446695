// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compare orchestrates the two deep-research pipelines. Each
// provider runs independently, gated on credential presence, and the
// run ends with a per-provider summary. A pipeline failure never stops
// the other pipeline or the process.
package compare

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/deep-research/internal/gemini"
	"github.com/pdiddy/deep-research/internal/ledger"
	"github.com/pdiddy/deep-research/internal/perplexity"
	"github.com/pdiddy/deep-research/internal/report"
	"github.com/pdiddy/deep-research/pkg/types"
)

// Outcome is the result of one provider pipeline.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Summary reports the per-provider outcome of a comparison run.
type Summary struct {
	Perplexity Outcome
	Gemini     Outcome
	OutputDir  string
}

// PerplexityBackend is the synchronous provider contract.
type PerplexityBackend interface {
	Research(ctx context.Context, query types.ResearchQuery, cfg types.PerplexityConfig) (*perplexity.Result, error)
}

// GeminiBackend is the asynchronous provider contract: submit a
// background interaction, then wait for a terminal status.
type GeminiBackend interface {
	Create(ctx context.Context, req gemini.CreateRequest) (*gemini.Interaction, error)
	Await(ctx context.Context, id string, interval, maxWait time.Duration) (*gemini.Interaction, error)
}

// Recorder persists provider attempts. Nil Ledger disables recording.
type Recorder interface {
	Record(ctx context.Context, e ledger.Entry) error
}

// Runner holds the wiring for one comparison run.
type Runner struct {
	Config     types.CompareConfig
	Query      types.ResearchQuery
	Perplexity PerplexityBackend
	Gemini     GeminiBackend
	Ledger     Recorder
	Now        func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run executes both pipelines strictly sequentially, Perplexity first,
// skipping any provider whose credential is absent, and prints a
// summary. It never returns an error: all pipeline failures are
// reported on w and reflected in the Summary.
func (r *Runner) Run(ctx context.Context, w io.Writer) Summary {
	s := Summary{OutputDir: r.Config.OutputDir}
	if abs, err := filepath.Abs(r.Config.OutputDir); err == nil {
		s.OutputDir = abs
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("#", 60))
	fmt.Fprintln(w, "# DEEP RESEARCH COMPARISON")
	fmt.Fprintln(w, strings.Repeat("#", 60))

	if r.Config.Perplexity.APIKey == "" {
		fmt.Fprintln(w, "Warning: PERPLEXITY_API_KEY not set; skipping Perplexity")
		s.Perplexity = OutcomeSkipped
	} else {
		s.Perplexity = r.runPerplexity(ctx, w)
	}

	if r.Config.Gemini.APIKey == "" {
		fmt.Fprintln(w, "Warning: GOOGLE_API_KEY not set; skipping Gemini")
		s.Gemini = OutcomeSkipped
	} else {
		s.Gemini = r.runGemini(ctx, w)
	}

	banner(w, "SUMMARY")
	fmt.Fprintf(w, "Perplexity: %s\n", outcomeLine(s.Perplexity))
	fmt.Fprintf(w, "Gemini:     %s\n", outcomeLine(s.Gemini))
	fmt.Fprintf(w, "\nResults saved to: %s/\n", s.OutputDir)

	return s
}

func outcomeLine(o Outcome) string {
	if o == OutcomeCompleted {
		return "✓ Completed"
	}
	return "✗ Failed or skipped"
}

func banner(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", strings.Repeat("=", 60), title, strings.Repeat("=", 60))
}

// preview returns the first 100 characters of the query for console output.
func preview(prompt string) string {
	if len(prompt) <= 100 {
		return prompt
	}
	return prompt[:100] + "..."
}

func (r *Runner) runPerplexity(ctx context.Context, w io.Writer) Outcome {
	banner(w, "PERPLEXITY SONAR DEEP RESEARCH")
	fmt.Fprintln(w, "Starting Perplexity deep research...")
	fmt.Fprintf(w, "Query: %s\n", preview(r.Query.Prompt))

	started := r.now()
	res, err := r.Perplexity.Research(ctx, r.Query, r.Config.Perplexity)
	if err != nil {
		fmt.Fprintf(w, "✗ Perplexity API error: %v\n", err)
		r.record(ctx, w, ledger.Entry{
			Provider: "perplexity", Status: string(OutcomeFailed),
			StartedAt: started, FinishedAt: r.now(), Detail: err.Error(),
		})
		return OutcomeFailed
	}

	fmt.Fprintln(w, "\n✓ Research completed!")
	fmt.Fprintf(w, "  - Prompt tokens: %s\n", report.CountOrNA(res.Usage.PromptTokens))
	fmt.Fprintf(w, "  - Completion tokens: %s\n", report.CountOrNA(res.Usage.CompletionTokens))
	fmt.Fprintf(w, "  - Search queries: %s\n", report.CountOrNA(res.Usage.NumSearchQueries))
	fmt.Fprintf(w, "  - Citations: %d sources\n", len(res.SearchResults))

	mdPath, err := report.WritePerplexity(r.Config.OutputDir, res, r.now())
	if err != nil {
		fmt.Fprintf(w, "✗ writing Perplexity artifacts: %v\n", err)
		r.record(ctx, w, ledger.Entry{
			Provider: "perplexity", Status: string(OutcomeFailed),
			StartedAt: started, FinishedAt: r.now(), Detail: err.Error(),
		})
		return OutcomeFailed
	}
	fmt.Fprintf(w, "  - Report saved to: %s\n", mdPath)

	r.record(ctx, w, ledger.Entry{
		Provider: "perplexity", Status: string(OutcomeCompleted),
		StartedAt: started, FinishedAt: r.now(),
		PromptTokens:     res.Usage.PromptTokens,
		CompletionTokens: res.Usage.CompletionTokens,
		TotalTokens:      res.Usage.TotalTokens,
		ReportPath:       mdPath,
	})
	return OutcomeCompleted
}

func (r *Runner) runGemini(ctx context.Context, w io.Writer) Outcome {
	banner(w, "GOOGLE GEMINI DEEP RESEARCH")
	fmt.Fprintln(w, "Starting Gemini deep research...")
	fmt.Fprintf(w, "Query: %s\n", preview(r.Query.Prompt))
	fmt.Fprintln(w, "(This may take up to 20 minutes for comprehensive research)")

	started := r.now()
	cfg := r.Config.Gemini

	it, err := r.Gemini.Create(ctx, gemini.CreateRequest{
		Input:      r.Query.Prompt,
		Agent:      cfg.Agent,
		Background: true,
		AgentConfig: gemini.AgentConfig{
			Type:              "deep-research",
			ThinkingSummaries: cfg.ThinkingSummaries,
		},
	})
	if err != nil {
		fmt.Fprintf(w, "✗ Gemini API error: %v\n", err)
		r.record(ctx, w, ledger.Entry{
			Provider: "gemini", Status: string(OutcomeFailed),
			StartedAt: started, FinishedAt: r.now(), Detail: err.Error(),
		})
		return OutcomeFailed
	}
	fmt.Fprintf(w, "Research started: %s\n", it.ID)

	final, err := r.Gemini.Await(ctx, it.ID, cfg.PollInterval, cfg.MaxWait)
	if err != nil {
		fmt.Fprintf(w, "✗ Gemini API error: %v\n", err)
		r.record(ctx, w, ledger.Entry{
			Provider: "gemini", Status: string(OutcomeFailed),
			StartedAt: started, FinishedAt: r.now(), Detail: err.Error(),
		})
		return OutcomeFailed
	}

	fmt.Fprintf(w, "\n✓ Research completed in %d seconds!\n", int(r.now().Sub(started).Seconds()))
	fmt.Fprintf(w, "  - Total tokens: %s\n", report.CountOrNA(final.Usage.TotalTokens))

	mdPath, err := report.WriteGemini(r.Config.OutputDir, final, r.now())
	if err != nil {
		fmt.Fprintf(w, "✗ writing Gemini artifacts: %v\n", err)
		r.record(ctx, w, ledger.Entry{
			Provider: "gemini", Status: string(OutcomeFailed),
			StartedAt: started, FinishedAt: r.now(), Detail: err.Error(),
		})
		return OutcomeFailed
	}
	fmt.Fprintf(w, "  - Report saved to: %s\n", mdPath)

	r.record(ctx, w, ledger.Entry{
		Provider: "gemini", Status: string(OutcomeCompleted),
		StartedAt: started, FinishedAt: r.now(),
		PromptTokens:     final.Usage.PromptTokens,
		CompletionTokens: final.Usage.CompletionTokens,
		TotalTokens:      final.Usage.TotalTokens,
		ReportPath:       mdPath,
	})
	return OutcomeCompleted
}

// record persists an attempt when a ledger is wired. Ledger errors are
// warnings; the research result already exists on disk.
func (r *Runner) record(ctx context.Context, w io.Writer, e ledger.Entry) {
	if r.Ledger == nil {
		return
	}
	if err := r.Ledger.Record(ctx, e); err != nil {
		fmt.Fprintf(w, "warning: recording run: %v\n", err)
	}
}
