package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id> [id...]",
		Short: "Delete photos from the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := ctx.facade()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			missing := 0
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid photo id %q", arg)
				}
				deleted, err := facade.Delete(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !deleted {
					fmt.Fprintf(out, "no photo with id %d\n", id)
					missing++
					continue
				}
				fmt.Fprintf(out, "deleted %d\n", id)
			}
			if missing == len(args) {
				return fmt.Errorf("nothing deleted")
			}
			return nil
		},
	}
}
