package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func runUpcoming(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	contests, err := a.client.UpcomingContests(ctx)
	if err != nil {
		return fmt.Errorf("contest list unavailable: %w", err)
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(contests)
	}
	if len(contests) == 0 {
		fmt.Println("No upcoming contests announced.")
		return nil
	}
	fmt.Println("Upcoming contests:")
	for _, ct := range contests {
		start := time.Unix(ct.StartTime, 0)
		fmt.Printf("  %s  %s\n", start.Format("2006-01-02 15:04"), ct.Name)
	}
	return nil
}
