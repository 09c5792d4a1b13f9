package config

const (
	defaultCacheDir        = "~/.cache/subfetch/subliminal"
	defaultLogDir          = "~/.local/share/subfetch/logs"
	defaultConcurrent      = 25
	defaultSubliminal      = "subliminal"
	defaultFFprobe         = "ffprobe"
	defaultProgressMs      = 500
	defaultDepsPollSeconds = 5
	defaultShutdownSeconds = 5
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

func defaultPythonLaunchers() []string {
	return []string{"python3", "python", "py"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Downloads: Downloads{
			Languages:  []string{"en"},
			Concurrent: defaultConcurrent,
		},
		Tools: Tools{
			SubliminalBinary: defaultSubliminal,
			PythonLaunchers:  defaultPythonLaunchers(),
			FFprobeBinary:    defaultFFprobe,
		},
		Workflow: Workflow{
			ProgressRefreshMs:      defaultProgressMs,
			DepsPollSeconds:        defaultDepsPollSeconds,
			ShutdownTimeoutSeconds: defaultShutdownSeconds,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
