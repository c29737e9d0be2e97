package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lightbox/internal/exporter"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> [id...]",
		Short: "Copy photos into the export directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid photo id %q", arg)
				}
				ids = append(ids, id)
			}

			exp := exporter.New(cfg, store, ctx.logger())
			report, err := exp.Export(cmd.Context(), ids)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(report.Items))
			for _, item := range report.Items {
				rows = append(rows, []string{
					fmt.Sprintf("%d", item.ID),
					item.Filename,
					string(item.Status),
					item.Reason,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "FILENAME", "STATUS", "DETAIL"}, rows, []columnAlignment{alignRight}))
			fmt.Fprintf(out, "Exported %d of %d to %s\n", report.Exported, len(report.Items), cfg.Paths.ExportDir)
			if report.Failed > 0 {
				return fmt.Errorf("%d photos failed to export", report.Failed)
			}
			return nil
		},
	}
}

func newClearExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-export",
		Short: "Empty the export directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			exp := exporter.New(cfg, store, ctx.logger())
			if err := exp.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", cfg.Paths.ExportDir)
			return nil
		},
	}
}
