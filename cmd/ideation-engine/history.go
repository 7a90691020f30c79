// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ideation-engine/internal/history"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Review past ideation rounds",
	Long: `History lists rounds previously saved with --save, newest first. With
--search it runs a full-text query over the idea text of all saved rounds.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of rounds or matches to show")
	historyCmd.Flags().String("search", "", "full-text query over saved idea text")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("history-dir", ".ideation", "directory for the history ledger")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("history-dir")
	limit, _ := cmd.Flags().GetInt("limit")
	query, _ := cmd.Flags().GetString("search")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := history.NewStore(types.HistoryConfig{Dir: dir})
	if err != nil {
		return err
	}
	defer store.Close()

	if query != "" {
		hits, err := store.SearchIdeas(context.Background(), query, limit)
		if err != nil {
			return err
		}
		return formatHits(hits, jsonOutput)
	}

	rounds, err := store.Rounds(context.Background(), limit)
	if err != nil {
		return err
	}
	return formatRounds(rounds, jsonOutput)
}

func formatRounds(rounds []types.Round, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rounds)
	}

	if len(rounds) == 0 {
		fmt.Println("No saved rounds.")
		return nil
	}

	for _, round := range rounds {
		fmt.Printf("%s  %s  (%s)\n", round.Timestamp.Local().Format("2006-01-02 15:04"), round.Problem, round.Model)
		for i, idea := range round.Ideas {
			fmt.Printf("  %d. %s (score %g/20)\n", i+1, idea.Idea, idea.Combined())
		}
		fmt.Println()
	}
	return nil
}

func formatHits(hits []history.IdeaHit, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, hit := range hits {
		fmt.Printf("%s (score %g/20)\n  from: %s (%s)\n",
			hit.Idea.Idea, hit.Idea.Combined(), hit.Problem,
			hit.Timestamp.Local().Format("2006-01-02"))
	}
	return nil
}
