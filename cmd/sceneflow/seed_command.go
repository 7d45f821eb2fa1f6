package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sceneflow/internal/store"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a small demo catalog for local evaluation",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			projectID, err := seedDemoCatalog(cmd.Context(), st)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded demo project %d. Try: sceneflow record characters 1 --scope visual && sceneflow process\n", projectID)
			return nil
		},
	}
}

func seedDemoCatalog(ctx context.Context, st *store.Store) (int64, error) {
	profileID, err := st.CreateProductionProfile(ctx, "Night Market Studio", "watercolor")
	if err != nil {
		return 0, err
	}
	projectID, err := st.CreateProject(ctx, "Paper Lantern District", profileID)
	if err != nil {
		return 0, err
	}
	if _, err := st.CreateWorldRule(ctx, projectID, "lanterns never go out", "ambient light is always warm"); err != nil {
		return 0, err
	}

	episodeOne, err := st.CreateEpisode(ctx, projectID, 1, "The Ferry")
	if err != nil {
		return 0, err
	}
	episodeTwo, err := st.CreateEpisode(ctx, projectID, 2, "Paper Cranes")
	if err != nil {
		return 0, err
	}

	var scenes []int64
	for i, entry := range []struct {
		episode int64
		tone    string
	}{
		{episodeOne, "calm"},
		{episodeOne, "curious"},
		{episodeTwo, "tense"},
	} {
		sceneID, err := st.CreateScene(ctx, entry.episode, i+1, entry.tone)
		if err != nil {
			return 0, err
		}
		scenes = append(scenes, sceneID)
	}

	heroine, err := st.CreateCharacter(ctx, "Yumi")
	if err != nil {
		return 0, err
	}
	arc, err := st.CreateStoryArc(ctx, "the unsent letter")
	if err != nil {
		return 0, err
	}
	for _, sceneID := range scenes[:2] {
		if err := st.AddSceneCharacter(ctx, sceneID, heroine); err != nil {
			return 0, err
		}
	}
	if err := st.AddSceneStoryArc(ctx, scenes[2], arc); err != nil {
		return 0, err
	}

	return projectID, nil
}
