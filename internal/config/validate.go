package config

import "fmt"

// Validate checks configuration values that have hard bounds.
func (c *Config) Validate() error {
	if c.Downloads.Concurrent < 1 || c.Downloads.Concurrent > MaxConcurrent {
		return fmt.Errorf("downloads.concurrent: value %d outside [1, %d]", c.Downloads.Concurrent, MaxConcurrent)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
