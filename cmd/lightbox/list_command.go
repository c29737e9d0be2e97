package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lightbox/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var oldestFirst bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			order := library.OrderNewestFirst
			if oldestFirst {
				order = library.OrderOldestFirst
			}
			records, err := store.List(cmd.Context(), order)
			if err != nil {
				return err
			}
			printPhotoTable(cmd, records)
			return nil
		},
	}

	cmd.Flags().BoolVar(&oldestFirst, "asc", false, "Oldest photos first")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var fromFlag, toFlag string

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search photos by filename and capture date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			query := library.SearchQuery{}
			if len(args) == 1 {
				query.Text = args[0]
			}
			if from, err := parseDateFlag(fromFlag, false); err != nil {
				return err
			} else {
				query.From = from
			}
			if to, err := parseDateFlag(toFlag, true); err != nil {
				return err
			} else {
				query.To = to
			}

			records, err := store.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			printPhotoTable(cmd, records)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Only photos captured on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Only photos captured on or before this date (YYYY-MM-DD)")
	return cmd
}

// parseDateFlag reads a YYYY-MM-DD flag. An end-of-range date covers the
// whole day.
func parseDateFlag(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return &parsed, nil
}

func printPhotoTable(cmd *cobra.Command, records []*library.PhotoRecord) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No photos found")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		live := ""
		if record.HasMotion {
			live = "live"
		}
		duration := ""
		if record.Duration > 0 {
			duration = fmt.Sprintf("%.1fs", record.Duration)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", record.ID),
			formatCaptured(record.CapturedAt),
			record.Filename,
			live,
			duration,
		})
	}
	headers := []string{"ID", "CAPTURED", "FILENAME", "LIVE", "DURATION"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	fmt.Fprintf(out, "%d photos\n", len(records))
}
