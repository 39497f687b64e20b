package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiffcs/maintainer-dashboard/config"
	"github.com/spiffcs/maintainer-dashboard/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display current GitHub API rate limit status including remaining quota and reset time.`,
	}
	cmd.AddCommand(NewCmdRateLimitStatus())
	return cmd
}

// NewCmdRateLimitStatus creates the ratelimit status subcommand.
func NewCmdRateLimitStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current rate limit status",
		Long:  `Display the current GitHub API rate limit status for the core, search and GraphQL APIs.`,
		RunE:  runRateLimitStatus,
	}
}

var rateLabels = map[string]string{
	"core":    "Core API:  ",
	"search":  "Search API:",
	"graphql": "GraphQL:   ",
}

func runRateLimitStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := ghclient.NewClientWithEndpoint(cmd.Context(), cfg.GetGitHubToken(), cfg.GraphQLURL, cfg.RESTURL)
	if err != nil {
		return err
	}

	rates, err := client.RESTRateLimits(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(w, "GitHub API Rate Limits:")
	_, _ = fmt.Fprintln(w)

	for _, r := range rates {
		resetIn := max(time.Until(r.ResetAt).Round(time.Second), 0)
		_, _ = fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n", rateLabels[r.Resource], r.Remaining, r.Limit, resetIn)
	}

	return nil
}
