package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Library statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := ctx.facade()
			if err != nil {
				return err
			}
			stats, err := facade.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Photos:       %d\n", stats.TotalPhotos)
			fmt.Fprintf(out, "Live photos:  %d\n", stats.LivePhotos)
			fmt.Fprintf(out, "Disk usage:   %s (%.2f GB)\n", humanize.IBytes(uint64(stats.TotalSizeBytes)), stats.TotalSizeGB)
			return nil
		},
	}
}
