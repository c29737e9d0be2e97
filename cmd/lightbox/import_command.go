package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	progressbar "github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"lightbox/internal/classify"
	"lightbox/internal/config"
	"lightbox/internal/importer"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <source-dir>",
		Short: "Import Live Photos from a source directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			logger := ctx.logger()
			svc := ctx.codecService()
			imp := importer.New(cfg, store, classify.New(svc, logger), svc, logger)

			progress := importProgress()
			result, err := imp.Import(cmd.Context(), source, progress)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d candidates\n", result.Imported, result.Total)
			if len(result.Collisions) > 0 {
				rows := make([][]string, 0, len(result.Collisions))
				for _, col := range result.Collisions {
					rows = append(rows, []string{col.OriginalName, col.FinalName})
				}
				fmt.Fprintln(out, "Renamed on collision:")
				fmt.Fprintln(out, renderTable([]string{"ORIGINAL", "IMPORTED AS"}, rows, nil))
			}
			for _, failure := range result.Failures {
				fmt.Fprintf(out, "failed: %s: %v\n", failure.BaseName, failure.Err)
			}
			if result.Total > 0 && result.Imported == 0 {
				return fmt.Errorf("no candidates could be imported")
			}
			return nil
		},
	}
}

// importProgress renders a progress bar on interactive terminals and stays
// quiet otherwise.
func importProgress() importer.Progress {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}
	var bar *progressbar.ProgressBar
	return func(completed, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "Importing photos")
		}
		_ = bar.Set(completed)
	}
}
