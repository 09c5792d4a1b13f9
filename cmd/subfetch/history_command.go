package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subfetch/internal/history"
	"subfetch/internal/jobs"
)

type runDetails struct {
	runID     string
	startedAt time.Time
	root      string
	languages []string
	forced    bool
	cancelled bool
	snapshot  []jobs.Job
	counts    jobs.Counts
}

// recordRun persists one finished download cycle to the history database.
func recordRun(ctx context.Context, dbPath string, details runDetails) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records := make([]history.JobRecord, 0, len(details.snapshot))
	for _, job := range details.snapshot {
		records = append(records, history.JobRecord{
			Target:        job.Target,
			Status:        job.Status,
			Reason:        job.Reason,
			SubtitleCount: len(job.SubtitlePaths),
		})
	}

	_, err = store.RecordRun(ctx, history.Run{
		ID:         details.runID,
		StartedAt:  details.startedAt,
		FinishedAt: time.Now(),
		Root:       details.root,
		Languages:  details.languages,
		Forced:     details.forced,
		Cancelled:  details.cancelled,
		Total:      details.counts.Total,
		Completed:  details.counts.Completed,
		Failed:     details.counts.Failed,
	}, records)
	return err
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past download runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				note := ""
				if run.Cancelled {
					note = "cancelled"
				} else if run.Forced {
					note = "forced"
				}
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.Root,
					strings.Join(run.Languages, ","),
					strconv.Itoa(run.Total),
					strconv.Itoa(run.Completed),
					strconv.Itoa(run.Failed),
					note,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Started", "Root", "Languages", "Total", "Done", "Failed", ""},
				rows, 5, 6, 7))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-video outcomes for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.RunJobs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No jobs recorded for run %s.\n", args[0])
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.Target,
					statusLabel(record.Status),
					record.Reason,
					strconv.Itoa(record.SubtitleCount),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Video", "Status", "Detail", "Subtitles"}, rows, 4))
			return nil
		},
	}
}
