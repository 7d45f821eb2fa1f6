package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newStaleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stale <project-id>",
		Short: "List scenes in a project with outstanding regeneration jobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			engine, _, cleanup, err := ctx.openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			stale, err := engine.StaleScenes(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			if len(stale) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No stale scenes in project %d.\n", projectID)
				return nil
			}

			rows := make([][]string, 0, len(stale))
			for _, scene := range stale {
				rows = append(rows, []string{
					strconv.FormatInt(scene.SceneID, 10),
					strconv.FormatInt(scene.EpisodeID, 10),
					strconv.Itoa(scene.Sequence),
					scene.Tone,
					scene.GenerationStatus,
					strings.Join(scene.QueuedScopes, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Scene", "Episode", "Seq", "Tone", "Generation", "Queued Scopes"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
