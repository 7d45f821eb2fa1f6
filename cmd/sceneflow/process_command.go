package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Claim pending changelog entries and enqueue regeneration jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, cleanup, err := ctx.openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			jobs, err := engine.ProcessPendingChanges(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No new regeneration jobs.")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					strconv.FormatInt(job.JobID, 10),
					strconv.FormatInt(job.SceneID, 10),
					job.Scope,
					strconv.FormatInt(job.TriggeredBy, 10),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Job", "Scene", "Scope", "Change"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum changelog entries to claim (0 uses the configured batch limit)")
	return cmd
}
