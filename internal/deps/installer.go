package deps

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"subfetch/internal/services"
)

// InstallResult is what a one-shot installer leaves behind for the caller
// to drain.
type InstallResult struct {
	Stage Stage
	// Method names the command chain entry that succeeded, e.g. "pipx".
	Method string
	Err    error
}

// Installer runs one stage's installation.
type Installer func(ctx context.Context) InstallResult

// Installers holds one installer per stage. A nil entry disables
// auto-install for that stage.
type Installers struct {
	Python     Installer
	Subliminal Installer
}

// SystemInstallers builds both stage installers against the real system.
func SystemInstallers(launchers []string) Installers {
	return Installers{
		Python:     PythonInstaller(),
		Subliminal: SubliminalInstaller(launchers),
	}
}

// PythonInstaller installs a Python 3 interpreter. Only Windows supports an
// unattended install (via winget); everywhere else the interpreter comes
// from the system package manager, so the result reports a manual install.
func PythonInstaller() Installer {
	return func(ctx context.Context) InstallResult {
		if runtime.GOOS == "windows" {
			output, err := exec.CommandContext(ctx, "winget", "install", "--exact", "--id", "Python.Python.3.12",
				"--silent", "--accept-package-agreements", "--accept-source-agreements").CombinedOutput()
			if err == nil {
				return InstallResult{Stage: StagePython, Method: "winget"}
			}
			return InstallResult{Stage: StagePython, Err: services.Wrap(services.ErrExternalTool, "deps", "install python",
				"winget install failed", fmt.Errorf("%v: %s", err, firstLine(output)))}
		}
		return InstallResult{Stage: StagePython, Err: services.Wrap(services.ErrExternalTool, "deps", "install python",
			"manual install required: install Python 3 with your system package manager", nil)}
	}
}

// SubliminalInstaller installs subliminal, preferring pipx (which handles
// PEP 668 externally-managed environments) and falling back to a per-user
// pip install through each Python launcher.
func SubliminalInstaller(launchers []string) Installer {
	if len(launchers) == 0 {
		launchers = []string{"python3", "python", "py"}
	}
	return func(ctx context.Context) InstallResult {
		var attempts []string

		if output, err := exec.CommandContext(ctx, "pipx", "install", "subliminal").CombinedOutput(); err == nil {
			return InstallResult{Stage: StageSubliminal, Method: "pipx"}
		} else {
			attempts = append(attempts, fmt.Sprintf("pipx: %v: %s", err, firstLine(output)))
		}

		for _, launcher := range launchers {
			output, err := exec.CommandContext(ctx, launcher, "-m", "pip", "install", "--user", "subliminal").CombinedOutput()
			if err == nil {
				return InstallResult{Stage: StageSubliminal, Method: launcher + " -m pip"}
			}
			attempts = append(attempts, fmt.Sprintf("%s -m pip: %v: %s", launcher, err, firstLine(output)))
		}

		return InstallResult{Stage: StageSubliminal, Err: services.Wrap(services.ErrExternalTool, "deps", "install",
			"every install method failed", fmt.Errorf("%s", strings.Join(attempts, "; ")))}
	}
}

func firstLine(output []byte) string {
	text := strings.TrimSpace(string(output))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}
