package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiffcs/maintainer-dashboard/config"
	"github.com/spiffcs/maintainer-dashboard/internal/query"
)

// NewCmdQueries creates the queries command.
func NewCmdQueries() *cobra.Command {
	opts := NewOptions()

	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Print the GitHub search queries without running them",
		Long: `Print the three GitHub search queries for the current stale cutoff.

The output can be pasted into https://github.com/search to inspect the
results by hand. No GitHub token is needed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQueries(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.StaleWindow, "stale-window", "", "Time without maintainer activity before an item is stale (e.g., 14d, 2w)")

	return cmd
}

func runQueries(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	window, err := staleWindow(opts, cfg)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	builder, err := query.NewBuilder(reg)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-window)
	w := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(w, "Cutoff: %s\n\n", query.FormatTimestamp(cutoff))
	_, _ = fmt.Fprintf(w, "New:\n  %s\n\n", builder.NewItems())
	_, _ = fmt.Fprintf(w, "Definitely stale:\n  %s\n\n", builder.DefinitelyStale(cutoff))
	_, _ = fmt.Fprintf(w, "Maybe stale (checked against timelines):\n  %s\n", builder.MaybeStale(cutoff))

	return nil
}
