// Package config loads, validates, and persists subfetch configuration.
//
// Configuration is TOML. Load resolves the file (flag path, then
// ~/.config/subfetch/config.toml, then ./subfetch.toml), merges it over
// Default(), expands ~ in path fields, and enforces hard bounds such as the
// [1, MaxConcurrent] download concurrency range. Save round-trips the settings
// the CLI mutates (languages, force, overwrite, concurrency).
package config
