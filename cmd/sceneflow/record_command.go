package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sceneflow/internal/propagation"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var (
		field string
		scope string
	)

	cmd := &cobra.Command{
		Use:   "record <table> <record-id>",
		Short: "Record an entity change in the changelog",
		Long: `Record inserts a pending changelog entry the same way upstream catalog
tooling does after mutating an entity. Tracked tables: ` + strings.Join(propagation.TrackedTables(), ", ") + `.
Unknown tables are accepted and resolve to an empty scene set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			event, err := st.RecordChange(cmd.Context(), args[0], args[1], field, scope)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded change %d for %s %s (scope %s).\n",
				event.ID, event.TableName, event.RecordID, event.PropagationScope)
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "Name of the attribute that changed")
	cmd.Flags().StringVar(&scope, "scope", "all", "Propagation scope (visual, writing, audio, all)")
	return cmd
}
