package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lightbox/internal/fileutil"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one photo's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid photo id %q", args[0])
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			record, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("no photo with id %d", id)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", displayTitle(record.Filename))
			fmt.Fprintf(out, "  ID:        %d\n", record.ID)
			fmt.Fprintf(out, "  Captured:  %s\n", formatCaptured(record.CapturedAt))
			fmt.Fprintf(out, "  Still:     %s (%s)\n", record.FilePath, humanize.IBytes(uint64(fileutil.FileSize(record.FilePath))))
			if videoPath := record.VideoPath(); videoPath != "" {
				fmt.Fprintf(out, "  Video:     %s (%s)\n", videoPath, humanize.IBytes(uint64(fileutil.FileSize(videoPath))))
				if record.Duration > 0 {
					fmt.Fprintf(out, "  Duration:  %.1fs\n", record.Duration)
				}
			} else {
				fmt.Fprintf(out, "  Video:     none\n")
			}
			fmt.Fprintf(out, "  Added:     %s\n", formatCaptured(record.CreatedAt))
			return nil
		},
	}
}
