package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Downloads.Concurrent != defaultConcurrent {
		t.Fatalf("unexpected default concurrency: %d", cfg.Downloads.Concurrent)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[downloads]
languages = ["EN", "fr", "en", ""]
concurrent = 4

[paths]
cache_dir = "` + filepath.Join(dir, "cache") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path %q, got %q exists=%v", path, resolved, exists)
	}
	if got := strings.Join(cfg.Downloads.Languages, ","); got != "en,fr" {
		t.Fatalf("unexpected languages: %q", got)
	}
	if cfg.Downloads.Concurrent != 4 {
		t.Fatalf("unexpected concurrency: %d", cfg.Downloads.Concurrent)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsConcurrencyOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[downloads]\nconcurrent = 500\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for out-of-range concurrency")
	}
}

func TestHistoryDBPathDefaultsToLogDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.LogDir = "/var/log/subfetch"
	if got := cfg.HistoryDBPath(); got != filepath.Join("/var/log/subfetch", "history.db") {
		t.Fatalf("unexpected history path: %q", got)
	}
	cfg.History.Path = "/tmp/custom.db"
	if got := cfg.HistoryDBPath(); got != "/tmp/custom.db" {
		t.Fatalf("unexpected custom history path: %q", got)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.toml")

	cfg := Default()
	cfg.Downloads.Languages = []string{"en", "de"}
	cfg.Downloads.Force = true
	cfg.Downloads.Concurrent = 7
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Downloads.Force || loaded.Downloads.Concurrent != 7 {
		t.Fatalf("unexpected round-tripped downloads: %+v", loaded.Downloads)
	}
	if strings.Join(loaded.Downloads.Languages, ",") != "en,de" {
		t.Fatalf("unexpected languages: %v", loaded.Downloads.Languages)
	}
}
