package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Aniket-Chugh/cf-tracker/internal/recommend"
)

func runRecommend(cmd *cobra.Command, args []string) error {
	handle := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")
	tagsFlag, _ := cmd.Flags().GetString("tags")
	minRating, _ := cmd.Flags().GetInt("min-rating")
	maxRating, _ := cmd.Flags().GetInt("max-rating")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
	defer cancel()

	state, err := a.coord.Refresh(ctx, handle)
	if err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}
	if state.Profile == nil || !state.Profile.BestRating().Valid {
		fmt.Println("No recommendations: user has no rating yet.")
		return nil
	}

	catalog, err := a.client.Problems(ctx)
	if err != nil {
		return fmt.Errorf("problem catalog unavailable: %w", err)
	}
	log.Info().Int("catalog_size", len(catalog)).Msg("catalog fetched")

	var filter []string
	if tagsFlag != "" {
		for _, t := range strings.Split(tagsFlag, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter = append(filter, t)
			}
		}
	}
	if minRating == 0 {
		minRating = a.cfg.Recommend.MinRating
	}
	if maxRating == 0 {
		maxRating = a.cfg.Recommend.MaxRating
	}

	engine := recommend.NewEngine(recommend.Config{
		TargetOffset:  a.cfg.Recommend.TargetOffset,
		PatternWindow: a.cfg.Recommend.PatternWindow,
		Limit:         a.cfg.Recommend.TopN,
		MinRating:     a.cfg.Recommend.MinRating,
		MaxRating:     a.cfg.Recommend.MaxRating,
	})
	recs := engine.Recommend(catalog, state.Snapshot, recommend.Request{
		UserRating: state.Profile.BestRating(),
		TagFilter:  filter,
		Difficulty: recommend.Range{Min: minRating, Max: maxRating},
	})

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(recs)
	}
	if len(recs) == 0 {
		fmt.Println("No matching problems found. Solve a few more and try again.")
		return nil
	}
	fmt.Printf("Practice picks for %s (rating %s):\n\n", handle, state.Profile.BestRating())
	for i, r := range recs {
		fmt.Printf("%2d. [%s] %s (%s)\n     %s — tags: %s\n",
			i+1, r.Problem.Rating, r.Problem.Name, r.Problem.Key(),
			r.Reason, strings.Join(r.Problem.Tags, ", "))
	}
	return nil
}
