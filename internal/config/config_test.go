package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Prefix != "." {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, ".")
	}
	if cfg.Name != "LinkBot" {
		t.Errorf("Name = %q, want %q", cfg.Name, "LinkBot")
	}
	if want := filepath.Join(tmpDir, DBFileName); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
	if cfg.CollaboratorTimeout() != 10*time.Second {
		t.Errorf("CollaboratorTimeout() = %v, want 10s", cfg.CollaboratorTimeout())
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	content := `{"prefix": "!", "db_path": "/var/lib/linkbot/bot.db", "weather_units": "c", "max_concurrent_commands": 4}`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Prefix != "!" {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "!")
	}
	if cfg.DBPath != "/var/lib/linkbot/bot.db" {
		t.Errorf("DBPath = %q, want explicit path", cfg.DBPath)
	}
	if cfg.WeatherUnits != "C" {
		t.Errorf("WeatherUnits = %q, want %q", cfg.WeatherUnits, "C")
	}
	if cfg.MaxConcurrentCommands != 4 {
		t.Errorf("MaxConcurrentCommands = %d, want 4", cfg.MaxConcurrentCommands)
	}
	// Untouched fields keep defaults
	if cfg.WeatherURL != "https://wttr.in" {
		t.Errorf("WeatherURL = %q, want default", cfg.WeatherURL)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvToken:  " xoxb-123 ",
		EnvDBPath: "/tmp/env.db",
		EnvName:   "linkbot",
	}
	getenv := func(k string) string { return env[k] }

	base := DefaultConfig()
	base.DBPath = "/tmp/file.db"
	base.AppToken = "xapp-from-file"

	cfg := ApplyEnv(base, getenv)

	if cfg.Token != "xoxb-123" {
		t.Errorf("Token = %q, want trimmed env value", cfg.Token)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("DBPath = %q, want env to win", cfg.DBPath)
	}
	if cfg.Name != "linkbot" {
		t.Errorf("Name = %q, want %q", cfg.Name, "linkbot")
	}
	if cfg.AppToken != "xapp-from-file" {
		t.Errorf("AppToken = %q, want file value when env unset", cfg.AppToken)
	}
	if cfg.Prefix != "." {
		t.Errorf("Prefix = %q, want default", cfg.Prefix)
	}
}

func TestMerge_DisabledTools(t *testing.T) {
	base := &Config{DisabledTools: []string{"bookmark_create", " bookmark_list "}}
	overlay := &Config{DisabledTools: []string{"bookmark_list", "bookmark_deactivate", ""}}

	result := Merge(base, overlay)

	want := []string{"bookmark_create", "bookmark_list", "bookmark_deactivate"}
	if len(result.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", result.DisabledTools, want)
	}
	for i := range want {
		if result.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, result.DisabledTools[i], want[i])
		}
	}
}

func TestMerge_EmptySlicesStayNil(t *testing.T) {
	result := Merge(&Config{}, &Config{})
	if result.DisabledTools != nil {
		t.Errorf("DisabledTools = %v, want nil", result.DisabledTools)
	}
}
