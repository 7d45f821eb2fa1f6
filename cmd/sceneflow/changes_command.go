package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newChangesCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "List recent changelog entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := st.ListChanges(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Changelog is empty.")
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, event := range events {
				rows = append(rows, []string{
					strconv.FormatInt(event.ID, 10),
					displayLabel(event.TableName),
					event.RecordID,
					event.FieldChanged,
					event.PropagationScope,
					string(event.PropagationStatus),
					strconv.Itoa(len(event.AffectedScenes)),
					event.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Entity", "Record", "Field", "Scope", "Status", "Scenes", "Created"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to list")
	return cmd
}
