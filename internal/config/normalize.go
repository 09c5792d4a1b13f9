package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDownloads()
	c.normalizeTools()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) != "" {
		if c.History.Path, err = expandPath(c.History.Path); err != nil {
			return fmt.Errorf("history.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeDownloads() {
	languages := make([]string, 0, len(c.Downloads.Languages))
	seen := map[string]struct{}{}
	for _, lang := range c.Downloads.Languages {
		normalized := strings.ToLower(strings.TrimSpace(lang))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		languages = append(languages, normalized)
	}
	if len(languages) == 0 {
		languages = []string{"en"}
	}
	c.Downloads.Languages = languages
	if c.Downloads.Concurrent == 0 {
		c.Downloads.Concurrent = defaultConcurrent
	}
}

func (c *Config) normalizeTools() {
	c.Tools.SubliminalBinary = strings.TrimSpace(c.Tools.SubliminalBinary)
	if c.Tools.SubliminalBinary == "" {
		c.Tools.SubliminalBinary = defaultSubliminal
	}
	c.Tools.FFprobeBinary = strings.TrimSpace(c.Tools.FFprobeBinary)
	if c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = defaultFFprobe
	}
	launchers := make([]string, 0, len(c.Tools.PythonLaunchers))
	for _, launcher := range c.Tools.PythonLaunchers {
		if trimmed := strings.TrimSpace(launcher); trimmed != "" {
			launchers = append(launchers, trimmed)
		}
	}
	if len(launchers) == 0 {
		launchers = defaultPythonLaunchers()
	}
	c.Tools.PythonLaunchers = launchers
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.ProgressRefreshMs <= 0 {
		c.Workflow.ProgressRefreshMs = defaultProgressMs
	}
	if c.Workflow.DepsPollSeconds <= 0 {
		c.Workflow.DepsPollSeconds = defaultDepsPollSeconds
	}
	if c.Workflow.ShutdownTimeoutSeconds <= 0 {
		c.Workflow.ShutdownTimeoutSeconds = defaultShutdownSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
