package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/allenhutchison/github-activity-reporter/config"
	"github.com/allenhutchison/github-activity-reporter/internal/auth"
	"github.com/allenhutchison/github-activity-reporter/internal/ghclient"
	"github.com/allenhutchison/github-activity-reporter/internal/log"
	"github.com/allenhutchison/github-activity-reporter/internal/model"
	"github.com/allenhutchison/github-activity-reporter/internal/narrative"
	"github.com/allenhutchison/github-activity-reporter/internal/report"
	"github.com/allenhutchison/github-activity-reporter/internal/strategy"
)

// NewCmdReport creates the report command.
func NewCmdReport(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an activity report",
		Long: `Summarize your contributions and maintainer work over a date range as
a markdown report, optionally followed by an AI-written narrative.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 1, "Number of days to look back")
	cmd.Flags().StringVar(&opts.StartDate, "start-date", "", "Start date in YYYY-MM-DD format")
	cmd.Flags().StringVar(&opts.EndDate, "end-date", "", "End date in YYYY-MM-DD format")
	cmd.Flags().StringSliceVar(&opts.Repos, "repos", nil, "Override repos to report on (owner/repo or org)")
	cmd.Flags().BoolVar(&opts.Narrative, "narrative", false, "Generate an AI narrative summary")
	cmd.Flags().StringVar(&opts.GeminiModel, "gemini-model", "", "Gemini model for the narrative")
	cmd.Flags().StringVar(&opts.Source, "source", "graphql", "Data source: graphql or rest")

	return cmd
}

// resolvePeriod turns the date flags into a period. Explicit dates win over
// the day count; the end date defaults to today.
func resolvePeriod(opts *Options) (model.Period, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	start := today.AddDate(0, 0, -opts.Days)
	if opts.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", opts.StartDate)
		if err != nil {
			return model.Period{}, fmt.Errorf("invalid --start-date %q: %w", opts.StartDate, err)
		}
		start = parsed
	}

	end := today
	if opts.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", opts.EndDate)
		if err != nil {
			return model.Period{}, fmt.Errorf("invalid --end-date %q: %w", opts.EndDate, err)
		}
		end = parsed
	}

	if end.Before(start) {
		return model.Period{}, fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return model.Period{Start: start, End: end}, nil
}

func runReport(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repos := opts.Repos
	if len(repos) == 0 {
		repos = cfg.ReportRepos()
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repositories specified in config or arguments")
	}

	period, err := resolvePeriod(opts)
	if err != nil {
		return err
	}

	token := auth.ResolveToken()
	ctx := cmd.Context()

	var data model.ReportData
	switch opts.Source {
	case "graphql":
		data, err = collectGraphQL(ctx, cfg, token, period, repos)
	case "rest":
		data, err = collectREST(ctx, token, period, repos)
	default:
		return fmt.Errorf("unknown --source %q, expected graphql or rest", opts.Source)
	}
	if err != nil {
		return err
	}

	useNarrative := opts.Narrative || cfg.NarrativeEnabled()
	out := cmd.OutOrStdout()

	if !useNarrative {
		fmt.Fprint(out, report.Markdown(data))
		return nil
	}

	fmt.Fprintln(out, "## 📊 Structured Report")
	fmt.Fprintln(out)
	fmt.Fprint(out, report.Markdown(data))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "## 📖 Narrative Summary")
	fmt.Fprintln(out)

	modelName := opts.GeminiModel
	if modelName == "" {
		modelName = cfg.GeminiModel()
	}
	text, err := generateNarrative(ctx, modelName, data)
	if err != nil {
		// Narrative failure is a notice, never fatal: the structured report
		// already printed.
		fmt.Fprintf(out, "Error generating narrative: %v\n", err)
		fmt.Fprintln(out, "Falling back to structured report only.")
		return nil
	}
	fmt.Fprintln(out, text)
	return nil
}

func collectGraphQL(ctx context.Context, cfg *config.Config, token string, period model.Period, repos []string) (model.ReportData, error) {
	client, err := ghclient.NewGraphQLClient(token)
	if err != nil {
		return model.ReportData{}, err
	}

	username := cfg.Username
	if username == "" {
		username, err = client.ViewerLogin(ctx)
		if err != nil {
			return model.ReportData{}, fmt.Errorf("failed to resolve username: %w", err)
		}
	}

	// The repository-scoped queries need owner/name entries; bare org
	// entries are skipped by the strategies with a warning.
	authored, err := strategy.NewAuthored(client, repos, username, period).Run(ctx)
	if err != nil {
		return model.ReportData{}, err
	}
	maintainer, err := strategy.NewMaintainer(client, repos, username, period).Run(ctx)
	if err != nil {
		return model.ReportData{}, err
	}

	return report.Build(username, period, repos, authored, maintainer), nil
}

func collectREST(ctx context.Context, token string, period model.Period, repos []string) (model.ReportData, error) {
	client, err := ghclient.NewClient(ctx, token)
	if err != nil {
		return model.ReportData{}, err
	}
	username, err := client.AuthenticatedUser(ctx)
	if err != nil {
		return model.ReportData{}, err
	}
	log.Info("collecting report data", "source", "rest", "user", username)
	return report.CollectREST(ctx, client, username, period, repos), nil
}

func generateNarrative(ctx context.Context, modelName string, data model.ReportData) (string, error) {
	gen, err := narrative.NewGenerator(ctx, modelName)
	if err != nil {
		return "", err
	}
	return gen.Generate(ctx, data)
}
