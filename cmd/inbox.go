package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/allenhutchison/github-activity-reporter/config"
	"github.com/allenhutchison/github-activity-reporter/internal/aggregate"
	"github.com/allenhutchison/github-activity-reporter/internal/auth"
	"github.com/allenhutchison/github-activity-reporter/internal/ghclient"
	"github.com/allenhutchison/github-activity-reporter/internal/log"
	"github.com/allenhutchison/github-activity-reporter/internal/output"
	"github.com/allenhutchison/github-activity-reporter/internal/state"
	"github.com/allenhutchison/github-activity-reporter/internal/strategy"
)

// NewCmdInbox creates the inbox command.
func NewCmdInbox(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "inbox",
		Short: "Show activity since your last check",
		Long: `Fetch recent issues, pull requests, and discussions from your watched
repositories plus mentions of you elsewhere, and show everything that
changed since the previous run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInbox(cmd, opts)
		},
	}
}

func runInbox(cmd *cobra.Command, _ *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(cfg.WatchAll) == 0 && len(cfg.WatchMentions) == 0 {
		return fmt.Errorf("no repositories configured. Add watch_all or watch_mentions entries to %s", config.ConfigPath())
	}

	client, err := ghclient.NewGraphQLClient(auth.ResolveToken())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	username := cfg.Username
	if username == "" && len(cfg.WatchMentions) > 0 {
		username, err = client.ViewerLogin(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve username: %w", err)
		}
	}

	store, err := state.NewStore()
	if err != nil {
		return err
	}
	since := store.LastRun()
	startedAt := time.Now().UTC()
	log.Info("checking for activity", "since", since.Format(time.RFC3339))

	watched, err := strategy.NewFullWatch(client, cfg.WatchAll, since).Run(ctx)
	if err != nil {
		return err
	}
	mentioned, err := strategy.NewMentionWatch(client, cfg.WatchMentions, username, since).Run(ctx)
	if err != nil {
		return err
	}

	items := aggregate.Dedupe(watched, mentioned)
	aggregate.SortInbox(items)

	if err := output.NewRenderer(os.Stdout).Render(items); err != nil {
		return err
	}

	// The watermark only advances after a fully successful run, so items
	// missed by a partial failure surface again next time.
	if err := store.SetLastRun(startedAt); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	log.Info("inbox complete", "items", len(items))
	return nil
}
