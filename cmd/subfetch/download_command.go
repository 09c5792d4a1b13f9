package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"subfetch/internal/jobs"
	"subfetch/internal/scan"
	"subfetch/internal/scheduler"
	"subfetch/internal/subliminal"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var (
		languages  []string
		force      bool
		overwrite  bool
		concurrent int
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "download <folder-or-video>",
		Short: "Scan a folder and download missing subtitles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if len(languages) == 0 {
				languages = cfg.Downloads.Languages
			}
			if !cmd.Flags().Changed("force") {
				force = cfg.Downloads.Force
			}
			if !cmd.Flags().Changed("overwrite") {
				overwrite = cfg.Downloads.OverwriteExisting
			}
			if !cmd.Flags().Changed("concurrent") {
				concurrent = cfg.Downloads.Concurrent
			}

			// One download cycle per machine at a time; overlapping runs
			// would race on the subliminal cache.
			lock := flock.New(filepath.Join(cfg.Paths.LogDir, "subfetch.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another subfetch run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			scanner := scan.NewScanner(logger)
			targets, err := scanner.Run(args[0], scan.Options{
				Languages:      languages,
				IncludeCovered: force || overwrite,
			})
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do: every video already has subtitles.")
				return nil
			}

			pool := scheduler.NewPool(
				subliminal.NewClient(cfg.Tools.SubliminalBinary, cfg.Tools.PythonLaunchers),
				logger,
			)
			startedAt := time.Now()
			err = pool.Submit(context.Background(), targets, scheduler.Options{
				Languages:       languages,
				Concurrency:     concurrent,
				Force:           force || overwrite,
				CacheDir:        cfg.Paths.CacheDir,
				FFprobeBinary:   cfg.Tools.FFprobeBinary,
				ProgressRefresh: time.Duration(cfg.Workflow.ProgressRefreshMs) * time.Millisecond,
			})
			if err != nil {
				return err
			}

			// First interrupt cancels cooperatively; a second one aborts.
			interrupts := make(chan os.Signal, 2)
			signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(interrupts)
			go func() {
				<-interrupts
				fmt.Fprintln(cmd.ErrOrStderr(), "cancelling: running downloads will finish, queued jobs are dropped")
				pool.Cancel()
				<-interrupts
				os.Exit(1)
			}()

			cancelled := watchProgress(cmd, pool)

			snapshot, counts := pool.FinalSnapshot()
			fmt.Fprintln(cmd.OutOrStdout(), renderJobTable(snapshot))
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %d of %d (%d failed) in %s\n",
				counts.Completed, counts.Total, counts.Failed, time.Since(startedAt).Round(time.Second))

			if cfg.History.Enabled && !noHistory {
				if err := recordRun(cmd.Context(), cfg.HistoryDBPath(), runDetails{
					runID:     pool.RunID(),
					startedAt: startedAt,
					root:      args[0],
					languages: languages,
					forced:    force || overwrite,
					cancelled: cancelled,
					snapshot:  snapshot,
					counts:    counts,
				}); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: run not recorded to history: %v\n", err)
				}
			}

			if counts.Failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", counts.Failed, counts.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&languages, "language", "l", nil, "Subtitle language code (repeatable); defaults to config")
	cmd.Flags().BoolVar(&force, "force", false, "Re-download subtitles even when files exist")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Include videos that already have subtitle files")
	cmd.Flags().IntVar(&concurrent, "concurrent", 0, "Maximum simultaneous downloads (1-100); defaults to config")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording this run to the history database")
	return cmd
}

func renderJobTable(snapshot []jobs.Job) string {
	rows := make([][]string, 0, len(snapshot))
	for _, job := range snapshot {
		detail := job.Reason
		if job.Status == jobs.StatusSuccess && len(job.SubtitlePaths) > 0 {
			detail = filepath.Base(job.SubtitlePaths[0])
			if len(job.SubtitlePaths) > 1 {
				detail = fmt.Sprintf("%s (+%d more)", detail, len(job.SubtitlePaths)-1)
			}
		}
		if job.RecoverableWarning {
			detail += " [cache warning]"
		}
		rows = append(rows, []string{
			filepath.Base(job.Target),
			statusLabel(job.Status),
			detail,
		})
	}
	return renderTable([]string{"Video", "Status", "Detail"}, rows)
}

func statusLabel(status jobs.Status) string {
	switch status {
	case jobs.StatusPending:
		return "pending"
	case jobs.StatusRunning:
		return "running"
	case jobs.StatusSuccess:
		return "downloaded"
	case jobs.StatusEmbeddedExists:
		return "embedded"
	case jobs.StatusFailed:
		return "failed"
	default:
		return string(status)
	}
}
