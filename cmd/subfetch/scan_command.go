package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subfetch/internal/scan"
	"subfetch/internal/subtitlefiles"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		languages []string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "scan <folder>",
		Short: "List videos missing subtitles without downloading anything",
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

			targets, err := scan.NewScanner(logger).Run(args[0], scan.Options{
				Languages:      languages,
				IncludeCovered: all,
			})
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Every video already has subtitles.")
				return nil
			}

			rows := make([][]string, 0, len(targets))
			for _, target := range targets {
				existing := subtitlefiles.FindForVideo(target, languages)
				names := make([]string, 0, len(existing))
				for _, path := range existing {
					names = append(names, filepath.Base(path))
				}
				rows = append(rows, []string{target, strings.Join(names, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Video", "Existing subtitles"}, rows))
			fmt.Fprintf(cmd.OutOrStdout(), "%d video(s) need subtitles for %s\n",
				len(targets), strings.Join(languages, ", "))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&languages, "language", "l", nil, "Subtitle language code (repeatable); defaults to config")
	cmd.Flags().BoolVar(&all, "all", false, "List every video, including ones already covered")
	return cmd
}
