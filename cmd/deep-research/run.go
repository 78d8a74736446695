package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/internal/compare"
	"github.com/pdiddy/deep-research/internal/gemini"
	"github.com/pdiddy/deep-research/internal/ledger"
	"github.com/pdiddy/deep-research/internal/perplexity"
	"github.com/pdiddy/deep-research/internal/query"
	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	defaultOutputDir       = "research_results"
	defaultTimeout         = 10 * time.Minute
	defaultPollInterval    = 10 * time.Second
	defaultUserAgent       = "deep-research/0.1"
	defaultPerplexityModel = "sonar-deep-research"
	defaultGeminiAgent     = "deep-research-pro-preview-12-2025"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the research query against both providers",
	Long: `Run submits the research query to Perplexity (one blocking call) and to
Gemini (a background interaction polled until completion), strictly in that
order. Each provider writes a raw JSON dump and a Markdown report under the
output directory. A provider without a credential is skipped.

The command always exits zero; per-provider outcomes appear in the summary.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("query", "", "research prompt (default: built-in AI-regulation query)")
	runCmd.Flags().String("query-file", "", "path to a YAML query file")
	runCmd.Flags().String("output-dir", "", "directory for result artifacts (default research_results)")
	runCmd.Flags().Duration("timeout", 0, "Perplexity HTTP timeout (default 10m)")
	runCmd.Flags().Duration("poll-interval", 0, "Gemini status poll interval (default 10s)")
	runCmd.Flags().Duration("max-wait", 0, "bound on total Gemini polling time (default unbounded)")

	rootCmd.AddCommand(runCmd)
}

// compareConfig assembles the run configuration from flags, config file,
// and defaults, in that order of precedence.
func compareConfig(cmd *cobra.Command) types.CompareConfig {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("output_dir")
	}
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("perplexity.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	pollInterval, _ := cmd.Flags().GetDuration("poll-interval")
	if pollInterval == 0 {
		pollInterval = viper.GetDuration("gemini.poll_interval")
	}
	if pollInterval == 0 {
		pollInterval = defaultPollInterval
	}

	maxWait, _ := cmd.Flags().GetDuration("max-wait")
	if maxWait == 0 {
		maxWait = viper.GetDuration("gemini.max_wait")
	}

	model := viper.GetString("perplexity.model")
	if model == "" {
		model = defaultPerplexityModel
	}
	searchMode := viper.GetString("perplexity.search_mode")
	if searchMode == "" {
		searchMode = "web"
	}
	reasoningEffort := viper.GetString("perplexity.reasoning_effort")
	if reasoningEffort == "" {
		reasoningEffort = "high"
	}
	temperature := 0.2
	if viper.IsSet("perplexity.temperature") {
		temperature = viper.GetFloat64("perplexity.temperature")
	}

	agent := viper.GetString("gemini.agent")
	if agent == "" {
		agent = defaultGeminiAgent
	}
	thinkingSummaries := viper.GetString("gemini.thinking_summaries")
	if thinkingSummaries == "" {
		thinkingSummaries = "auto"
	}

	return types.CompareConfig{
		OutputDir: outputDir,
		Perplexity: types.PerplexityConfig{
			HTTPConfig:      types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
			Model:           model,
			Temperature:     temperature,
			SearchMode:      searchMode,
			ReasoningEffort: reasoningEffort,
			APIKey:          credential("PERPLEXITY_API_KEY"),
		},
		Gemini: types.GeminiConfig{
			HTTPConfig:        types.HTTPConfig{UserAgent: defaultUserAgent},
			Agent:             agent,
			ThinkingSummaries: thinkingSummaries,
			PollInterval:      pollInterval,
			MaxWait:           maxWait,
			APIKey:            credential("GOOGLE_API_KEY"),
		},
	}
}

// researchQuery resolves the query for this run: query file, then
// --query / config, then the built-in default.
func researchQuery(cmd *cobra.Command, cfg *types.CompareConfig) (types.ResearchQuery, error) {
	if path, _ := cmd.Flags().GetString("query-file"); path != "" {
		f, err := query.Load(path)
		if err != nil {
			return types.ResearchQuery{}, err
		}
		f.Apply(cfg)
		q := f.Query()
		if q.SystemPrompt == "" {
			q.SystemPrompt = query.DefaultSystemPrompt
		}
		return q, nil
	}

	prompt, _ := cmd.Flags().GetString("query")
	if prompt == "" {
		prompt = viper.GetString("query")
	}
	if prompt == "" {
		return query.Default(), nil
	}
	return types.ResearchQuery{Prompt: prompt, SystemPrompt: query.DefaultSystemPrompt}, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := compareConfig(cmd)

	q, err := researchQuery(cmd, &cfg)
	if err != nil {
		return err
	}

	runner := &compare.Runner{
		Config: cfg,
		Query:  q,
		Perplexity: &perplexity.Client{
			Client: &http.Client{Timeout: cfg.Perplexity.Timeout},
			APIKey: cfg.Perplexity.APIKey,
		},
		Gemini: &gemini.Client{
			Client: &http.Client{Timeout: 60 * time.Second},
			APIKey: cfg.Gemini.APIKey,
			Out:    os.Stdout,
		},
	}

	store, err := ledger.Open(cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run ledger unavailable: %v\n", err)
	} else {
		defer store.Close()
		runner.Ledger = store
	}

	// Outcomes are reported in the summary; the process exits zero
	// regardless of individual pipeline results.
	runner.Run(cmd.Context(), os.Stdout)
	return nil
}
