package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "cftracker"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Codeforces practice analytics and problem recommendations",
		Version: version,
		Long: `cftracker pulls a competitor's public Codeforces history and derives
practice metrics: accuracy, difficulty spread, day streaks, weak and
strong topics, recurring wrong-answer patterns, contest performance,
and a ranked list of practice problems to do next.`,
		Run: runDefaultEntry,
	}

	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to YAML config file")
	rootCmd.PersistentFlags().String("api-url", "", "Override judge API base URL")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <handle>",
		Short: "Compute the full analytics snapshot for a handle",
		Long:  "Fetches profile, submission history, and rating history, then derives all practice metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().Int("count", 0, "Submission history depth (default from config)")
	analyzeCmd.Flags().Bool("json", false, "Emit the snapshot as JSON")

	recommendCmd := &cobra.Command{
		Use:   "recommend <handle>",
		Short: "Rank practice problems against the user's weaknesses",
		Long:  "Filters the global problem catalog by weak tags and wrong-answer patterns, then ranks by distance from the user's target difficulty",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecommend,
	}
	recommendCmd.Flags().String("tags", "", "Comma-separated tag filter (empty = no restriction)")
	recommendCmd.Flags().Int("min-rating", 0, "Minimum problem rating (default from config)")
	recommendCmd.Flags().Int("max-rating", 0, "Maximum problem rating (default from config)")
	recommendCmd.Flags().Bool("json", false, "Emit recommendations as JSON")

	contestsCmd := &cobra.Command{
		Use:   "contests <handle>",
		Short: "Summarize recent contest performance",
		Long:  "Derives rating deltas, the best and worst contests, and the average change over the most recent rated contests",
		Args:  cobra.ExactArgs(1),
		RunE:  runContests,
	}
	contestsCmd.Flags().Bool("json", false, "Emit the report as JSON")

	upcomingCmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List upcoming contests",
		Long:  "Shows the next contests that have not started yet, soonest first",
		RunE:  runUpcoming,
	}
	upcomingCmd.Flags().Bool("json", false, "Emit the list as JSON")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Start the monitoring HTTP server",
		Long:  "Serves /health and /metrics for scraping",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	monitorCmd.Flags().String("port", "8080", "HTTP server port")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(contestsCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(monitorCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// runDefaultEntry shows usage guidance; all functionality lives in
// subcommands.
func runDefaultEntry(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "cftracker requires a subcommand in non-interactive use:\n\n")
		fmt.Fprintf(os.Stderr, "  cftracker analyze tourist\n")
		fmt.Fprintf(os.Stderr, "  cftracker recommend tourist --tags dp,graphs\n")
		fmt.Fprintf(os.Stderr, "  cftracker --help\n")
		os.Exit(2)
	}
	_ = cmd.Help()
}
