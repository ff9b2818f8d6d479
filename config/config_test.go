package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `
watch_all:
  - acme/widgets
  - acme/gadgets
watch_mentions:
  - golang/go
username: alice
reporter:
  narrative: true
  gemini_model: gemini-2.5-pro
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if len(cfg.WatchAll) != 2 || cfg.WatchAll[0] != "acme/widgets" {
		t.Errorf("WatchAll = %v", cfg.WatchAll)
	}
	if len(cfg.WatchMentions) != 1 || cfg.WatchMentions[0] != "golang/go" {
		t.Errorf("WatchMentions = %v", cfg.WatchMentions)
	}
	if cfg.Username != "alice" {
		t.Errorf("Username = %q, want alice", cfg.Username)
	}
	if !cfg.NarrativeEnabled() {
		t.Error("NarrativeEnabled() = false, want true")
	}
	if cfg.GeminiModel() != "gemini-2.5-pro" {
		t.Errorf("GeminiModel() = %q", cfg.GeminiModel())
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error, got %v", err)
	}
	if len(cfg.WatchAll) != 0 || cfg.Username != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := writeConfig(t, "watch_all: [unclosed")
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}

func TestGeminiModelDefault(t *testing.T) {
	cfg := &Config{}
	if cfg.GeminiModel() != DefaultGeminiModel {
		t.Errorf("GeminiModel() = %q, want %q", cfg.GeminiModel(), DefaultGeminiModel)
	}
	if cfg.NarrativeEnabled() {
		t.Error("NarrativeEnabled() = true for empty config")
	}
}

func TestReportRepos(t *testing.T) {
	cfg := &Config{
		WatchAll:      []string{"acme/widgets", "acme/gadgets"},
		WatchMentions: []string{"acme/widgets", "golang/go"},
	}

	got := cfg.ReportRepos()
	want := []string{"acme/widgets", "acme/gadgets", "golang/go"}
	if len(got) != len(want) {
		t.Fatalf("ReportRepos() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReportRepos()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMerge(t *testing.T) {
	global := &Config{
		WatchAll: []string{"acme/widgets"},
		Username: "alice",
		Reporter: &ReporterConfig{GeminiModel: "gemini-2.5-pro"},
	}
	local := &Config{
		WatchAll: []string{"other/repo"},
	}

	merged := merge(global, local)
	if merged.WatchAll[0] != "other/repo" {
		t.Errorf("local watch_all should win, got %v", merged.WatchAll)
	}
	if merged.Username != "alice" {
		t.Errorf("global username should survive, got %q", merged.Username)
	}
	if merged.Reporter == nil || merged.Reporter.GeminiModel != "gemini-2.5-pro" {
		t.Error("global reporter section should survive")
	}
}
