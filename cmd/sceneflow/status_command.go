package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show regeneration queue counts and changelog backlog",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, cleanup, err := ctx.openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			status, err := engine.QueueStatus(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(status.Jobs) == 0 {
				fmt.Fprintln(out, "Regeneration queue is empty.")
			} else {
				rows := make([][]string, 0, len(status.Jobs))
				for _, bucket := range status.Jobs {
					rows = append(rows, []string{
						displayLabel(string(bucket.Status)),
						displayLabel(bucket.Scope),
						strconv.Itoa(bucket.Count),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Status", "Scope", "Jobs"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
			}
			fmt.Fprintf(out, "Pending changelog entries: %d\n", status.PendingChanges)
			return nil
		},
	}
}
