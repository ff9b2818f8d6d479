// Package auth implements GitHub OAuth device-flow login and the on-disk
// token store the commands fall back to when GITHUB_TOKEN is unset.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	"github.com/allenhutchison/github-activity-reporter/internal/log"
)

// defaultClientID is the public OAuth app used when GITHUB_OAUTH_CLIENT_ID
// is not set. Device-flow client IDs are not secrets.
const defaultClientID = "Ov23liHjQnMws6ypFiTh"

var defaultScopes = []string{"repo", "read:org", "read:user"}

var githubEndpoint = oauth2.Endpoint{
	AuthURL:       "https://github.com/login/oauth/authorize",
	TokenURL:      "https://github.com/login/oauth/access_token",
	DeviceAuthURL: "https://github.com/login/device/code",
}

// savedToken is the on-disk shape of the stored token.
type savedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Scope       string    `json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
}

// TokenPath returns the token file location under the user config dir.
func TokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "github-activity-reporter", "oauth_token.json"), nil
}

// ClientID resolves the OAuth client ID: the environment variable wins over
// the built-in default.
func ClientID() string {
	if id := os.Getenv("GITHUB_OAUTH_CLIENT_ID"); id != "" {
		return id
	}
	return defaultClientID
}

// Login runs the device flow: request a code, tell the user where to enter
// it, and poll until GitHub grants a token. The granted token is persisted
// for later runs. Progress messages go to w. An empty clientID falls back
// to the environment override and then the built-in app.
func Login(ctx context.Context, w io.Writer, clientID string) error {
	if clientID == "" {
		clientID = ClientID()
	}
	cfg := &oauth2.Config{
		ClientID: clientID,
		Scopes:   defaultScopes,
		Endpoint: githubEndpoint,
	}

	da, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("failed to start device flow: %w", err)
	}

	fmt.Fprintf(w, "First, copy your one-time code: %s\n", da.UserCode)
	fmt.Fprintf(w, "Then visit %s to authorize this device.\n", da.VerificationURI)
	fmt.Fprintln(w, "Waiting for authorization...")

	token, err := cfg.DeviceAccessToken(ctx, da)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	if err := SaveToken(token.AccessToken); err != nil {
		return err
	}
	fmt.Fprintln(w, "Authentication successful. Token saved.")
	return nil
}

// SaveToken persists the token with owner-only permissions.
func SaveToken(accessToken string) error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	raw, err := json.MarshalIndent(savedToken{
		AccessToken: accessToken,
		TokenType:   "bearer",
		CreatedAt:   time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadToken returns the stored token, or empty when none is saved.
func LoadToken() string {
	path, err := TokenPath()
	if err != nil {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var st savedToken
	if err := json.Unmarshal(raw, &st); err != nil {
		log.Warn("corrupt token file ignored", "path", path, "error", err)
		return ""
	}
	return st.AccessToken
}

// ClearToken removes the stored token. Missing file is not an error.
func ClearToken() error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// HasToken reports whether a stored token exists.
func HasToken() bool {
	return LoadToken() != ""
}

// ResolveToken returns the token the commands should use: GITHUB_TOKEN from
// the environment wins over the stored OAuth token.
func ResolveToken() string {
	if t := os.Getenv("GITHUB_TOKEN"); t != "" {
		return t
	}
	return LoadToken()
}
