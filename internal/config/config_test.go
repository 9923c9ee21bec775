package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todos/internal/config"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "xdg-data"))
	t.Setenv(config.EnvBackend, "")
	t.Setenv(config.EnvDataDir, "")
	t.Setenv(config.EnvLogLevel, "")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, cfg.Dir)
	}
	if cfg.Backend != config.BackendFile {
		t.Errorf("expected file backend, got %q", cfg.Backend)
	}
	if cfg.DataDir != filepath.Join(dir, "xdg-data", "todos") {
		t.Errorf("unexpected data dir %q", cfg.DataDir)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "text" {
		t.Errorf("unexpected log settings %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvBackend, "")
	t.Setenv(config.EnvDataDir, "")
	t.Setenv(config.EnvLogLevel, "")
	writeConfig(t, dir, `
backend = "googletasks"
data_dir = "/srv/todos"
date_format = "2006-01-02"
log_level = "debug"
log_format = "json"
`)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != config.BackendGoogleTasks {
		t.Errorf("expected googletasks, got %q", cfg.Backend)
	}
	if cfg.DataDir != "/srv/todos" {
		t.Errorf("expected /srv/todos, got %q", cfg.DataDir)
	}
	if cfg.DateFormat != "2006-01-02" {
		t.Errorf("expected date format override, got %q", cfg.DateFormat)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("unexpected log settings %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `backend = "googletasks"`)
	t.Setenv(config.EnvBackend, "file")
	t.Setenv(config.EnvDataDir, "/tmp/elsewhere")
	t.Setenv(config.EnvLogLevel, "error")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != config.BackendFile {
		t.Errorf("expected env backend, got %q", cfg.Backend)
	}
	if cfg.DataDir != "/tmp/elsewhere" {
		t.Errorf("expected env data dir, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected env log level, got %q", cfg.LogLevel)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `backnd = "file"`)

	_, err := config.Load(dir)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "backnd") {
		t.Errorf("expected error to name the key, got %v", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `backend = `)

	if _, err := config.Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvDataDir, "~/tasks")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, "tasks") {
		t.Errorf("expected expanded path, got %q", cfg.DataDir)
	}
}

func TestValidate(t *testing.T) {
	cfg, _ := config.New(t.TempDir())

	cfg.Backend = "s3"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected unknown backend error, got %v", err)
	}

	cfg.Backend = config.BackendFile
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "unknown log format") {
		t.Errorf("expected unknown log format error, got %v", err)
	}
}

func TestPaths(t *testing.T) {
	cfg, _ := config.New("/cfg")

	if got := cfg.ConfigPath(); got != filepath.Join("/cfg", "config.toml") {
		t.Errorf("unexpected config path %q", got)
	}
	if got := cfg.TokenPath(); got != filepath.Join("/cfg", "token.json") {
		t.Errorf("unexpected token path %q", got)
	}
	if got := cfg.OAuthClientPath(); got != filepath.Join("/cfg", "oauth_client.json") {
		t.Errorf("unexpected oauth client path %q", got)
	}
}
