// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past comparison runs",
	Long: `History lists past provider attempts recorded in the run ledger under
the output directory, newest first.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries to show")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")
	historyCmd.Flags().String("output-dir", "", "directory holding the run ledger (default research_results)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("output_dir")
	}
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	store, err := ledger.Open(outputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, e := range entries {
		tokens := "N/A"
		if e.TotalTokens != nil {
			tokens = fmt.Sprintf("%d", *e.TotalTokens)
		}
		fmt.Fprintf(os.Stdout, "%-4d %-12s %-10s %s  tokens=%s",
			e.ID, e.Provider, e.Status, e.StartedAt.Local().Format("2006-01-02 15:04"), tokens)
		if e.Detail != "" {
			fmt.Fprintf(os.Stdout, "  (%s)", e.Detail)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
