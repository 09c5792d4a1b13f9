// Package testsupport provides shared helpers for package tests: temp-dir
// configs, stub executables, and media fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"subfetch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.History.Path = filepath.Join(base, "history.db")
	cfg.Downloads.Concurrent = 2
	cfg.Workflow.ShutdownTimeoutSeconds = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithLanguages overrides the configured subtitle languages.
func WithLanguages(langs ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Downloads.Languages = langs
	}
}

// WithConcurrent overrides the download concurrency limit.
func WithConcurrent(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Downloads.Concurrent = n
	}
}
