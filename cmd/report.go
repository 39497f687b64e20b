package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiffcs/maintainer-dashboard/config"
	"github.com/spiffcs/maintainer-dashboard/internal/duration"
	"github.com/spiffcs/maintainer-dashboard/internal/ghclient"
	"github.com/spiffcs/maintainer-dashboard/internal/log"
	"github.com/spiffcs/maintainer-dashboard/internal/output"
	"github.com/spiffcs/maintainer-dashboard/internal/registry"
	"github.com/spiffcs/maintainer-dashboard/internal/triage"
	"github.com/spiffcs/maintainer-dashboard/internal/tui"
)

// newSearcher builds the GitHub-backed searcher. Tests replace it.
var newSearcher = func(ctx context.Context, cfg *config.Config) (triage.Searcher, error) {
	client, err := ghclient.NewClientWithEndpoint(ctx, cfg.GetGitHubToken(), cfg.GraphQLURL, cfg.RESTURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewCmdReport creates the report command.
func NewCmdReport(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show new and stale issues and pull requests (same as root command)",
		Long: `Searches the configured repositories and prints two lists:

  new    open items no maintainer has authored or commented on
  stale  open items a maintainer commented on, with no maintainer
         activity within the stale window`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}

	addReportFlags(cmd, opts)
	return cmd
}

// addReportFlags adds the report-specific flags to a command.
func addReportFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().StringVar(&opts.StaleWindow, "stale-window", "", "Time without maintainer activity before an item is stale (e.g., 14d, 2w)")
	cmd.Flags().StringVar(&opts.Sort, "sort", opts.Sort, "Sort items by created, repo, author or type (prefix with - to reverse)")
	cmd.Flags().StringVar(&opts.Bucket, "bucket", opts.Bucket, "Which list to show (new, stale, all)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().Var(newProgressFlag(opts), "progress", "Show live progress on stderr (true, false, auto)")
	cmd.Flags().Lookup("progress").NoOptDefVal = "true"

	// Profiling flags
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
}

func runReport(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, cmd.ErrOrStderr())

	profiler := NewProfiler(opts.CPUProfile, opts.MemProfile, opts.Trace)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer profiler.Stop()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	formatter, err := buildFormatter(opts, cfg)
	if err != nil {
		return err
	}

	window, err := staleWindow(opts, cfg)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	searcher, err := newSearcher(ctx, cfg)
	if err != nil {
		return err
	}

	engineOpts := []triage.EngineOption{triage.WithStaleWindow(window)}

	var events chan tui.Event
	var tuiDone chan error
	if shouldShowProgress(opts) {
		events = make(chan tui.Event, 16)
		tuiDone = make(chan error, 1)
		go func() {
			tuiDone <- tui.Run(events, cmd.ErrOrStderr())
		}()
		engineOpts = append(engineOpts, triage.WithProgress(tui.ProgressSink(events)))
	}

	engine, err := triage.NewEngine(searcher, reg, engineOpts...)
	if err != nil {
		closeTUI(events, tuiDone)
		return err
	}

	start := time.Now()
	report, err := engine.Run(ctx)
	// The progress display must be gone before the report is written
	closeTUI(events, tuiDone)
	if err != nil {
		return fmt.Errorf("no data available: %w", rateLimitHint(searcher, err))
	}
	log.Info("report ready", "new", report.New.Count, "stale", report.Stale.Count, "elapsed", time.Since(start).Round(time.Millisecond))

	return formatter.Format(report, cmd.OutOrStdout())
}

// rateLimitHint adds the quota reset time to rate limit failures.
func rateLimitHint(s triage.Searcher, err error) error {
	c, ok := s.(*ghclient.Client)
	if !ok || !errors.Is(err, ghclient.ErrRateLimited) {
		return err
	}
	if _, _, resetAt := c.LastRateLimit(); !resetAt.IsZero() {
		return fmt.Errorf("%w (resets at %s)", err, resetAt.Local().Format(time.Kitchen))
	}
	return err
}

// closeTUI closes the event channel and waits for the display to exit.
func closeTUI(events chan tui.Event, done chan error) {
	if events == nil {
		return
	}
	close(events)
	if err := <-done; err != nil {
		log.Debug("progress display exited with error", "error", err)
	}
}

func buildFormatter(opts *Options, cfg *config.Config) (output.Formatter, error) {
	format := opts.Format
	if format == "" {
		format = cfg.DefaultFormat
	}

	sortKey, err := output.ParseSortKey(opts.Sort)
	if err != nil {
		return nil, err
	}
	bucket, err := output.ParseBucket(opts.Bucket)
	if err != nil {
		return nil, err
	}

	return output.NewFormatter(output.Format(format), output.WithSort(sortKey), output.WithBucket(bucket))
}

// staleWindow resolves the flag value, falling back to the config.
func staleWindow(opts *Options, cfg *config.Config) (time.Duration, error) {
	if opts.StaleWindow == "" {
		return cfg.GetStaleWindow(), nil
	}
	d, err := duration.Parse(opts.StaleWindow)
	if err != nil {
		return 0, fmt.Errorf("invalid --stale-window: %w", err)
	}
	return d, nil
}

func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if len(reg.Insiders()) == 0 {
		log.Warn("no insiders configured; every open item will count as new and stale queries lose their commenter filter")
	}
	log.Debug("registry loaded", "repositories", len(reg.Repos()), "insiders", len(reg.Insiders()))
	return reg, nil
}
