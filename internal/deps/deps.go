// Package deps probes for the two staged external dependencies — a Python 3
// interpreter and the subliminal package — and drives their installation.
package deps

import (
	"context"
	"os/exec"
	"strings"
)

// Stage identifies one of the two staged dependencies.
type Stage int

const (
	StagePython Stage = iota
	StageSubliminal
)

func (s Stage) String() string {
	switch s {
	case StagePython:
		return "python"
	case StageSubliminal:
		return "subliminal"
	default:
		return "unknown"
	}
}

// Stages lists both stages in install order.
func Stages() []Stage {
	return []Stage{StagePython, StageSubliminal}
}

// Availability is one probe pass over both stages.
type Availability struct {
	Python        bool
	PythonVersion string
	Subliminal    bool
}

// Satisfied reports whether both stages are present.
func (a Availability) Satisfied() bool {
	return a.Python && a.Subliminal
}

// Probes abstracts the stage checks so the monitor can be tested without a
// Python installation.
type Probes struct {
	Python     func(ctx context.Context) (version string, ok bool)
	Subliminal func(ctx context.Context) bool
}

// SystemProbes builds probes that shell out to the real interpreters.
func SystemProbes(subliminalBinary string, launchers []string) Probes {
	if strings.TrimSpace(subliminalBinary) == "" {
		subliminalBinary = "subliminal"
	}
	if len(launchers) == 0 {
		launchers = []string{"python3", "python", "py"}
	}
	return Probes{
		Python: func(ctx context.Context) (string, bool) {
			return pythonVersion(ctx, launchers)
		},
		Subliminal: func(ctx context.Context) bool {
			return subliminalInstalled(ctx, subliminalBinary, launchers)
		},
	}
}

// pythonVersion walks the launcher chain and returns the first Python 3
// version string found. Python 2 interpreters are rejected.
func pythonVersion(ctx context.Context, launchers []string) (string, bool) {
	for _, launcher := range launchers {
		output, err := exec.CommandContext(ctx, launcher, "--version").CombinedOutput()
		if err != nil {
			continue
		}
		version := strings.TrimSpace(string(output))
		if strings.HasPrefix(strings.ToLower(version), "python 3.") {
			return version, true
		}
	}
	return "", false
}

// subliminalInstalled checks for the standalone entry point first, then for
// the module via each launcher.
func subliminalInstalled(ctx context.Context, binary string, launchers []string) bool {
	if err := exec.CommandContext(ctx, binary, "--version").Run(); err == nil {
		return true
	}
	for _, launcher := range launchers {
		if err := exec.CommandContext(ctx, launcher, "-m", "subliminal", "--version").Run(); err == nil {
			return true
		}
	}
	return false
}
