// Package subliminal invokes the subliminal CLI to download subtitles.
//
// Subliminal may be installed as a standalone entry point or only as a Python
// module, so invocation walks a fallback chain: the configured binary first,
// then `<launcher> -m subliminal` for each configured Python launcher. The
// first invocation that actually starts wins; a non-zero exit code is not a
// launch failure, its output still feeds classification.
package subliminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"subfetch/internal/services"
)

// Request describes one download invocation.
type Request struct {
	Target    string
	Languages []string
	// Force passes --force so existing subtitles are re-downloaded.
	Force bool
	// CacheDir isolates subliminal's provider cache per run.
	CacheDir string
}

// Result carries the launch outcome: the command line that ran and the
// case-folded combination of its stdout and stderr.
type Result struct {
	Command string
	Output  string
}

// Runner abstracts the tool invocation so the scheduler can be tested without
// a Python installation.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// Client runs subliminal through os/exec.
type Client struct {
	binary    string
	launchers []string
}

// NewClient builds a client. binary defaults to "subliminal"; launchers
// default to python3, python, py.
func NewClient(binary string, launchers []string) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "subliminal"
	}
	if len(launchers) == 0 {
		launchers = []string{"python3", "python", "py"}
	}
	return &Client{binary: binary, launchers: launchers}
}

// BuildArgs assembles the subliminal CLI arguments for a request. The target
// path comes last so paths starting with a dash cannot be read as flags.
func BuildArgs(req Request) []string {
	args := []string{"download"}
	if req.Force {
		args = append(args, "--force")
	}
	for _, lang := range req.Languages {
		args = append(args, "-l", lang)
	}
	args = append(args, req.Target)
	return args
}

// Run walks the invocation chain and returns the output of the first command
// that launched. All launches failing is reported as services.ErrLaunch.
func (c *Client) Run(ctx context.Context, req Request) (Result, error) {
	args := BuildArgs(req)
	attempts := c.invocations(args)

	var launchErrs []string
	for _, attempt := range attempts {
		cmd := exec.CommandContext(ctx, attempt[0], attempt[1:]...) //nolint:gosec
		cmd.Env = environment(req.CacheDir)
		output, err := cmd.CombinedOutput()
		if err != nil && !launched(err) {
			launchErrs = append(launchErrs, fmt.Sprintf("%s: %v", attempt[0], err))
			continue
		}
		return Result{
			Command: strings.Join(attempt, " "),
			Output:  strings.ToLower(string(output)),
		}, nil
	}
	return Result{}, services.Wrap(services.ErrLaunch, "subliminal", "run",
		"no invocation form could be started", errors.New(strings.Join(launchErrs, "; ")))
}

func (c *Client) invocations(args []string) [][]string {
	attempts := [][]string{append([]string{c.binary}, args...)}
	for _, launcher := range c.launchers {
		attempts = append(attempts, append([]string{launcher, "-m", "subliminal"}, args...))
	}
	return attempts
}

// launched distinguishes "the process ran and exited" from "the process never
// started". A non-zero exit means subliminal ran; its output is still usable.
func launched(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// environment builds the isolated subprocess environment: UTF-8 output so
// classification markers survive Windows code pages, a dedicated cache
// directory, and deterministic Python hashing.
func environment(cacheDir string) []string {
	env := append(os.Environ(),
		"PYTHONIOENCODING=utf-8",
		"PYTHONHASHSEED=0",
	)
	if cacheDir != "" {
		env = append(env, "SUBLIMINAL_CACHE_DIR="+cacheDir)
	}
	return env
}
