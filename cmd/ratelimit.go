package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/allenhutchison/github-activity-reporter/internal/auth"
	"github.com/allenhutchison/github-activity-reporter/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display the current GitHub API rate limit status for the core, search, and GraphQL APIs.`,
		RunE:  runRateLimit,
	}
}

func runRateLimit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := ghclient.NewClient(ctx, auth.ResolveToken())
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "GitHub API Rate Limits:")
	fmt.Fprintln(out)

	if limits.Core != nil {
		fmt.Fprintf(out, "Core API:   %d/%d remaining (resets in %s)\n",
			limits.Core.Remaining, limits.Core.Limit, resetIn(limits.Core.Reset.Time))
	}
	if limits.Search != nil {
		fmt.Fprintf(out, "Search API: %d/%d remaining (resets in %s)\n",
			limits.Search.Remaining, limits.Search.Limit, resetIn(limits.Search.Reset.Time))
	}
	if limits.GraphQL != nil {
		fmt.Fprintf(out, "GraphQL:    %d/%d remaining (resets in %s)\n",
			limits.GraphQL.Remaining, limits.GraphQL.Limit, resetIn(limits.GraphQL.Reset.Time))
	}
	return nil
}

func resetIn(at time.Time) time.Duration {
	d := time.Until(at).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return d
}
