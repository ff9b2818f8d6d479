// Package config loads the reporter configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// WatchAll lists repositories ("owner/repo") or organizations ("owner")
	// whose full activity feeds the inbox.
	WatchAll []string `yaml:"watch_all,omitempty"`

	// WatchMentions lists repositories searched only for mentions of the
	// user or items the user authored. Useful for high-volume repos.
	WatchMentions []string `yaml:"watch_mentions,omitempty"`

	// Username is the GitHub login used for mention searches and report
	// classification. Required by the mention and report strategies.
	Username string `yaml:"username,omitempty"`

	Reporter *ReporterConfig `yaml:"reporter,omitempty"`
}

// ReporterConfig holds report-command settings.
type ReporterConfig struct {
	Narrative   bool   `yaml:"narrative,omitempty"`
	GeminiModel string `yaml:"gemini_model,omitempty"`
}

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".github-activity-reporter"
	}
	return filepath.Join(configDir, "github-activity-reporter")
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory.
func LocalConfigPath() string {
	return ".github-reporter.yaml"
}

// Load loads the configuration from disk. It first loads the global config
// from the XDG config directory, then merges any local .github-reporter.yaml
// on top (local values take precedence). A missing file is not an error:
// the result is simply an empty config.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadInto(ConfigPath(), cfg); err != nil {
		return nil, err
	}

	var local Config
	found, err := loadFile(LocalConfigPath(), &local)
	if err != nil {
		return nil, err
	}
	if found {
		cfg = merge(cfg, &local)
	}

	return cfg, nil
}

// LoadFrom loads a single config file from an explicit path (for testing).
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if err := loadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadInto(path string, cfg *Config) error {
	_, err := loadFile(path, cfg)
	return err
}

func loadFile(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return true, nil
}

// merge applies local config on top of global config. Non-empty local
// values win; unset local values preserve global values.
func merge(global, local *Config) *Config {
	result := &Config{
		WatchAll:      global.WatchAll,
		WatchMentions: global.WatchMentions,
		Username:      global.Username,
		Reporter:      global.Reporter,
	}

	if len(local.WatchAll) > 0 {
		result.WatchAll = local.WatchAll
	}
	if len(local.WatchMentions) > 0 {
		result.WatchMentions = local.WatchMentions
	}
	if local.Username != "" {
		result.Username = local.Username
	}
	if local.Reporter != nil {
		result.Reporter = local.Reporter
	}

	return result
}

// ReportRepos returns the default repository list for reports: the union of
// watch_all and watch_mentions with duplicates removed, preserving order.
func (c *Config) ReportRepos() []string {
	seen := make(map[string]struct{})
	var repos []string
	for _, r := range append(append([]string{}, c.WatchAll...), c.WatchMentions...) {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		repos = append(repos, r)
	}
	return repos
}

// NarrativeEnabled reports whether narrative generation is switched on in
// the config file.
func (c *Config) NarrativeEnabled() bool {
	return c.Reporter != nil && c.Reporter.Narrative
}

// GeminiModel returns the configured narrative model, or the default.
func (c *Config) GeminiModel() string {
	if c.Reporter != nil && c.Reporter.GeminiModel != "" {
		return c.Reporter.GeminiModel
	}
	return DefaultGeminiModel
}
