package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "maintainer-dashboard",
		Short: "Find GitHub issues and pull requests waiting on maintainers",
		Long: `A CLI tool that searches a set of GitHub repositories for open issues
and pull requests that no maintainer has responded to yet (new), or that
a maintainer touched but has since left alone for too long (stale).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add report flags to root command so `maintainer-dashboard` and
	// `maintainer-dashboard report` work identically
	addReportFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdReport(opts))
	rootCmd.AddCommand(NewCmdQueries())
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
