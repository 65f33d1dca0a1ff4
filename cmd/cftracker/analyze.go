package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Aniket-Chugh/cf-tracker/internal/pipeline"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	handle := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")
	count, _ := cmd.Flags().GetInt("count")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if count > 0 {
		a.coord = newCoordinator(a, count)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	log.Info().Str("handle", handle).Msg("analyzing")
	state, err := a.coord.Refresh(ctx, handle)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(analyzeOutput(state))
	}
	renderSnapshot(os.Stdout, state)
	return nil
}

// analyzeOutput shapes the state for JSON consumers.
func analyzeOutput(state pipeline.State) map[string]interface{} {
	out := map[string]interface{}{
		"handle":   state.Handle,
		"snapshot": state.Snapshot,
	}
	if state.Profile != nil {
		out["profile"] = state.Profile
	}
	if state.Performance != nil {
		out["contestPerformance"] = state.Performance
	}
	return out
}

func renderSnapshot(w *os.File, state pipeline.State) {
	if state.Profile != nil {
		p := state.Profile
		fmt.Fprintf(w, "%s (%s)  rating %s  max %s\n\n",
			p.Handle, p.Rank, p.Rating, p.MaxRating)
	}

	snap := state.Snapshot
	if snap == nil {
		fmt.Fprintln(w, "no submission data")
		return
	}
	agg := snap.Aggregates

	fmt.Fprintf(w, "Submissions: %d   Solved: %d   Accuracy: %.2f%%\n",
		agg.TotalCount, agg.SolvedCount, agg.Accuracy)
	fmt.Fprintf(w, "Average difficulty: %d\n", agg.AverageDifficulty)
	fmt.Fprintf(w, "Streak: %d current / %d best\n\n", snap.Streaks.Current, snap.Streaks.Max)

	if len(agg.DifficultyDistribution) > 0 {
		fmt.Fprintln(w, "Solved by difficulty:")
		keys := make([]string, 0, len(agg.DifficultyDistribution))
		for k := range agg.DifficultyDistribution {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %-8s %d\n", k, agg.DifficultyDistribution[k])
		}
		fmt.Fprintln(w)
	}

	if len(snap.Classification.Weak) > 0 {
		fmt.Fprintln(w, "Weak tags:")
		for _, t := range snap.Classification.Weak {
			fmt.Fprintf(w, "  %-24s %2d solved / %2d wrong (%.0f%%)\n",
				t.Tag, t.Solved, t.Wrong, t.SuccessRate*100)
		}
	}
	if len(snap.Classification.Strong) > 0 {
		fmt.Fprintln(w, "Strong tags:")
		for _, t := range snap.Classification.Strong {
			fmt.Fprintf(w, "  %-24s %2d solved\n", t.Tag, t.Solved)
		}
	}
	if len(snap.Patterns) > 0 {
		fmt.Fprintln(w, "Frequent wrong-answer patterns:")
		for _, p := range snap.Patterns {
			fmt.Fprintf(w, "  %s around %d (%d misses)\n", p.Tag, p.Rating, p.Count)
		}
	}

	fmt.Fprintln(w, "\nActivity by hour:")
	for h, b := range agg.Hourly {
		if b.Submissions == 0 {
			continue
		}
		fmt.Fprintf(w, "  %02d:00  %3d submissions, %3d solved (%.0f%%)\n",
			h, b.Submissions, b.Solved, b.SuccessRate())
	}
}
