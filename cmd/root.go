package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/allenhutchison/github-activity-reporter/internal/log"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "github-reporter",
		Short: "GitHub activity inbox and reporter",
		Long: `A CLI tool that tracks activity across the GitHub repositories you
care about. The inbox shows what changed since your last check; the
report summarizes your own contributions and maintainer work over a
period.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Initialize(opts.Verbosity, os.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInbox(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v",
		"Increase verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(NewCmdInbox(opts))
	rootCmd.AddCommand(NewCmdReport(opts))
	rootCmd.AddCommand(NewCmdAuth())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
