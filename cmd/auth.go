package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allenhutchison/github-activity-reporter/internal/auth"
)

// NewCmdAuth creates the auth command group.
func NewCmdAuth() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage GitHub authentication",
		Long: `Authenticate with GitHub using the OAuth device flow. The granted token
is stored locally and used whenever GITHUB_TOKEN is unset.`,
	}
	cmd.AddCommand(NewCmdAuthLogin())
	cmd.AddCommand(NewCmdAuthLogout())
	cmd.AddCommand(NewCmdAuthStatus())
	return cmd
}

// NewCmdAuthLogin creates the auth login subcommand.
func NewCmdAuthLogin() *cobra.Command {
	var clientID string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with the OAuth device flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return auth.Login(cmd.Context(), cmd.OutOrStdout(), clientID)
		},
	}
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth app client ID (overrides GITHUB_OAUTH_CLIENT_ID)")
	return cmd
}

// NewCmdAuthLogout creates the auth logout subcommand.
func NewCmdAuthLogout() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// NewCmdAuthStatus creates the auth status subcommand.
func NewCmdAuthStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credential source is active",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case auth.ResolveToken() == "":
				fmt.Fprintln(out, "Not authenticated. Set GITHUB_TOKEN or run 'auth login'.")
			case auth.HasToken() && auth.ResolveToken() != auth.LoadToken():
				fmt.Fprintln(out, "Authenticated via GITHUB_TOKEN (a stored OAuth token also exists).")
			case auth.HasToken():
				fmt.Fprintln(out, "Authenticated via stored OAuth token.")
			default:
				fmt.Fprintln(out, "Authenticated via GITHUB_TOKEN.")
			}
			return nil
		},
	}
}
