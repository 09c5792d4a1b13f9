package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subfetch/internal/jobs"
	"subfetch/internal/scheduler"
)

// watchProgress polls the pool until the run finishes. On a terminal the
// status line is redrawn in place; otherwise a line is printed only when the
// counts change. Returns whether the run ended after a cancellation sweep.
func watchProgress(cmd *cobra.Command, pool *scheduler.Pool) bool {
	out := cmd.OutOrStdout()
	live := false
	if f, ok := out.(*os.File); ok {
		live = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var last string
	cancelled := false
	for {
		select {
		case <-pool.Done():
			if live && last != "" {
				fmt.Fprint(out, "\r\033[K")
			}
			_, counts := pool.FinalSnapshot()
			if counts.Failed > 0 {
				cancelled = poolWasCancelled(pool)
			}
			return cancelled
		case <-ticker.C:
			_, counts := pool.Snapshot()
			line := fmt.Sprintf("downloading: %d running, %d queued, %d done, %d failed",
				counts.Running, counts.Pending, counts.Completed, counts.Failed)
			if line == last {
				continue
			}
			last = line
			if live {
				fmt.Fprintf(out, "\r\033[K%s", line)
			} else {
				fmt.Fprintln(out, line)
			}
		}
	}
}

func poolWasCancelled(pool *scheduler.Pool) bool {
	snapshot, _ := pool.FinalSnapshot()
	for _, job := range snapshot {
		if job.Status == jobs.StatusFailed && job.Reason == jobs.CancelledReason {
			return true
		}
	}
	return false
}
