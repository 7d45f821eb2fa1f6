package testsupport

import (
	"context"
	"testing"

	"sceneflow/internal/config"
	"sceneflow/internal/store"
)

// MustOpenStore opens the catalog store for a test config and closes it when
// the test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

// Catalog holds identifiers for the standard test fixture built by
// SeedCatalog.
type Catalog struct {
	ProfileID   string
	ProjectID   int64
	WorldRuleID int64
	EpisodeOne  int64
	EpisodeTwo  int64
	// Scenes A and B belong to episode one, scene C to episode two.
	SceneA, SceneB, SceneC int64
	CharacterID            int64
	ArcID                  int64
}

// SeedCatalog builds a small catalog: one profile-backed project with two
// episodes and three scenes, a character appearing in scenes A and B, and an
// arc covering scenes B and C.
func SeedCatalog(t testing.TB, st *store.Store) Catalog {
	t.Helper()
	ctx := context.Background()

	var (
		cat Catalog
		err error
	)
	if cat.ProfileID, err = st.CreateProductionProfile(ctx, "Cel Shade House", "cel"); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if cat.ProjectID, err = st.CreateProject(ctx, "Harbor Lights", cat.ProfileID); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if cat.WorldRuleID, err = st.CreateWorldRule(ctx, cat.ProjectID, "no modern tech", "pre-industrial setting"); err != nil {
		t.Fatalf("create world rule: %v", err)
	}
	if cat.EpisodeOne, err = st.CreateEpisode(ctx, cat.ProjectID, 1, "Arrival"); err != nil {
		t.Fatalf("create episode one: %v", err)
	}
	if cat.EpisodeTwo, err = st.CreateEpisode(ctx, cat.ProjectID, 2, "Departure"); err != nil {
		t.Fatalf("create episode two: %v", err)
	}
	if cat.SceneA, err = st.CreateScene(ctx, cat.EpisodeOne, 1, "calm"); err != nil {
		t.Fatalf("create scene A: %v", err)
	}
	if cat.SceneB, err = st.CreateScene(ctx, cat.EpisodeOne, 2, "tense"); err != nil {
		t.Fatalf("create scene B: %v", err)
	}
	if cat.SceneC, err = st.CreateScene(ctx, cat.EpisodeTwo, 1, "stormy"); err != nil {
		t.Fatalf("create scene C: %v", err)
	}
	if cat.CharacterID, err = st.CreateCharacter(ctx, "Mika"); err != nil {
		t.Fatalf("create character: %v", err)
	}
	if cat.ArcID, err = st.CreateStoryArc(ctx, "lighthouse mystery"); err != nil {
		t.Fatalf("create arc: %v", err)
	}
	if err = st.AddSceneCharacter(ctx, cat.SceneA, cat.CharacterID); err != nil {
		t.Fatalf("link character to scene A: %v", err)
	}
	if err = st.AddSceneCharacter(ctx, cat.SceneB, cat.CharacterID); err != nil {
		t.Fatalf("link character to scene B: %v", err)
	}
	if err = st.AddSceneStoryArc(ctx, cat.SceneB, cat.ArcID); err != nil {
		t.Fatalf("link arc to scene B: %v", err)
	}
	if err = st.AddSceneStoryArc(ctx, cat.SceneC, cat.ArcID); err != nil {
		t.Fatalf("link arc to scene C: %v", err)
	}
	return cat
}
