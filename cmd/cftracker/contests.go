package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Aniket-Chugh/cf-tracker/internal/analytics"
)

func runContests(cmd *cobra.Command, args []string) error {
	handle := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	changes, err := a.client.UserRating(ctx, handle)
	if err != nil {
		return fmt.Errorf("rating history unavailable: %w", err)
	}

	perf := analytics.AnalyzeContests(changes)
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(perf)
	}
	if perf == nil {
		fmt.Printf("%s has no rated contests yet.\n", handle)
		return nil
	}

	fmt.Printf("Recent contests for %s (%d rated, %d positive):\n\n",
		handle, perf.TotalContests, perf.PositiveCount)
	for _, r := range perf.Results {
		fmt.Printf("  %-48s %+5d  %s\n", r.ContestName, r.Delta, r.Label)
	}
	fmt.Printf("\nAverage change: %+d\n", perf.AvgChange)
	fmt.Printf("Best:  %s (%+d)\n", perf.Best.ContestName, perf.Best.Delta)
	fmt.Printf("Worst: %s (%+d)\n", perf.Worst.ContestName, perf.Worst.Delta)
	return nil
}
