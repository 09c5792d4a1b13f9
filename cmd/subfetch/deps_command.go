package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"subfetch/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var install bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check for Python 3 and subliminal, optionally installing what is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			probes := deps.SystemProbes(cfg.Tools.SubliminalBinary, cfg.Tools.PythonLaunchers)
			monitor := deps.NewMonitor(
				probes,
				deps.SystemInstallers(cfg.Tools.PythonLaunchers),
				deps.MonitorOptions{
					PollInterval: time.Duration(cfg.Workflow.DepsPollSeconds) * time.Second,
					StopTimeout:  time.Duration(cfg.Workflow.ShutdownTimeoutSeconds) * time.Second,
					AutoInstall:  install,
				},
				logger,
			)
			monitor.Start(cmd.Context())
			defer monitor.Stop()

			out := cmd.OutOrStdout()
			var last deps.Availability
			first := true
			satisfied := false
			for avail := range monitor.Updates() {
				if first || avail != last {
					fmt.Fprintf(out, "python 3: %s", yesNo(avail.Python))
					if avail.Python {
						fmt.Fprintf(out, " (%s)", avail.PythonVersion)
					}
					fmt.Fprintf(out, "   subliminal: %s\n", yesNo(avail.Subliminal))
					first = false
					last = avail
				}

				if err := drainInstallResults(out, monitor); err != nil {
					return err
				}

				if avail.Satisfied() {
					satisfied = true
					break
				}
				if !install {
					// Single probe pass unless we are driving an install.
					if !avail.Python {
						return fmt.Errorf("python 3 not found; install Python 3 and re-run")
					}
					return fmt.Errorf("subliminal not found; run `subfetch deps --install`")
				}
			}

			// An installer can finish between the probe pass that saw its
			// work and the result landing in the cell; report it too.
			for _, stage := range deps.Stages() {
				for monitor.Installing(stage) {
					time.Sleep(25 * time.Millisecond)
				}
			}
			if err := drainInstallResults(out, monitor); err != nil {
				return err
			}

			if satisfied {
				fmt.Fprintln(out, "All dependencies are available.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "Install Python 3 and subliminal when missing")
	return cmd
}

// drainInstallResults takes and reports any finished installer outcome, in
// stage order.
func drainInstallResults(out io.Writer, monitor *deps.Monitor) error {
	for _, stage := range deps.Stages() {
		result, ok := monitor.TakeInstallResult(stage)
		if !ok {
			continue
		}
		if result.Err != nil {
			return fmt.Errorf("%s install failed: %w", stage, result.Err)
		}
		fmt.Fprintf(out, "installed %s via %s\n", stage, result.Method)
	}
	return nil
}
