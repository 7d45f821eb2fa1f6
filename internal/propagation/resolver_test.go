package propagation_test

import (
	"context"
	"reflect"
	"testing"

	"sceneflow/internal/propagation"
	"sceneflow/internal/store"
	"sceneflow/internal/testsupport"
)

func TestCharacterChangeAffectsMemberScenesOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	resolver := propagation.NewResolver(st)

	ctx := context.Background()
	scenes, err := resolver.AffectedScenes(ctx, store.TableCharacters, store.FormatRecordID(cat.CharacterID))
	if err != nil {
		t.Fatalf("AffectedScenes failed: %v", err)
	}
	want := []int64{cat.SceneA, cat.SceneB}
	if !reflect.DeepEqual(scenes, want) {
		t.Fatalf("expected %v, got %v", want, scenes)
	}

	// Scene C carries no membership for this character and must stay out.
	for _, id := range scenes {
		if id == cat.SceneC {
			t.Fatalf("scene %d without the character must not be affected", cat.SceneC)
		}
	}
}

func TestStoryArcChangeAffectsArcScenes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	resolver := propagation.NewResolver(st)

	scenes, err := resolver.AffectedScenes(context.Background(), store.TableStoryArcs, store.FormatRecordID(cat.ArcID))
	if err != nil {
		t.Fatalf("AffectedScenes failed: %v", err)
	}
	want := []int64{cat.SceneB, cat.SceneC}
	if !reflect.DeepEqual(scenes, want) {
		t.Fatalf("expected %v, got %v", want, scenes)
	}
}

func TestEpisodeChangeAffectsChildScenes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	resolver := propagation.NewResolver(st)

	scenes, err := resolver.AffectedScenes(context.Background(), store.TableEpisodes, store.FormatRecordID(cat.EpisodeOne))
	if err != nil {
		t.Fatalf("AffectedScenes failed: %v", err)
	}
	want := []int64{cat.SceneA, cat.SceneB}
	if !reflect.DeepEqual(scenes, want) {
		t.Fatalf("expected %v, got %v", want, scenes)
	}
}

func TestSceneChangeAffectsItselfOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	resolver := propagation.NewResolver(st)

	// Scene B participates in character and arc relations; a direct edit
	// still stales only the scene itself.
	scenes, err := resolver.AffectedScenes(context.Background(), store.TableScenes, store.FormatRecordID(cat.SceneB))
	if err != nil {
		t.Fatalf("AffectedScenes failed: %v", err)
	}
	want := []int64{cat.SceneB}
	if !reflect.DeepEqual(scenes, want) {
		t.Fatalf("expected %v, got %v", want, scenes)
	}
}

func TestProductionProfileChangeFansOutAcrossProject(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	resolver := propagation.NewResolver(st)

	ctx := context.Background()

	// Scenes in a project that does not use the profile stay untouched.
	otherProject, err := st.CreateProject(ctx, "Other Show", "")
	if err != nil {
		t.Fatalf("create other project: %v", err)
	}
	otherEpisode, err := st.CreateEpisode(ctx, otherProject, 1, "")
	if err != nil {
		t.Fatalf("create other episode: %v", err)
	}
	if _, err := st.CreateScene(ctx, otherEpisode, 1, ""); err != nil {
		t.Fatalf("create other scene: %v", err)
	}

	scenes, err := resolver.AffectedScenes(ctx, store.TableProductionProfiles, cat.ProfileID)
	if err != nil {
		t.Fatalf("AffectedScenes failed: %v", err)
	}
	want := []int64{cat.SceneA, cat.SceneB, cat.SceneC}
	if !reflect.DeepEqual(scenes, want) {
		t.Fatalf("expected %v, got %v", want, scenes)
	}
}

func TestWorldRuleChangeFansOutAcrossOwningProject(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	resolver := propagation.NewResolver(st)

	scenes, err := resolver.AffectedScenes(context.Background(), store.TableWorldRules, store.FormatRecordID(cat.WorldRuleID))
	if err != nil {
		t.Fatalf("AffectedScenes failed: %v", err)
	}
	want := []int64{cat.SceneA, cat.SceneB, cat.SceneC}
	if !reflect.DeepEqual(scenes, want) {
		t.Fatalf("expected %v, got %v", want, scenes)
	}
}

func TestUnknownTableResolvesEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCatalog(t, st)
	resolver := propagation.NewResolver(st)

	scenes, err := resolver.AffectedScenes(context.Background(), "nonexistent_table", "1")
	if err != nil {
		t.Fatalf("expected no error for unknown table, got %v", err)
	}
	if len(scenes) != 0 {
		t.Fatalf("expected empty set, got %v", scenes)
	}
}

func TestDanglingReferenceResolvesEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCatalog(t, st)
	resolver := propagation.NewResolver(st)

	ctx := context.Background()
	for _, table := range []string{store.TableCharacters, store.TableScenes, store.TableWorldRules} {
		scenes, err := resolver.AffectedScenes(ctx, table, "424242")
		if err != nil {
			t.Fatalf("AffectedScenes(%s) failed: %v", table, err)
		}
		if len(scenes) != 0 {
			t.Fatalf("expected empty set for dangling %s reference, got %v", table, scenes)
		}
	}
}

func TestTrackedTablesCoversAllEntityKinds(t *testing.T) {
	want := []string{
		store.TableCharacters,
		store.TableEpisodes,
		store.TableProductionProfiles,
		store.TableScenes,
		store.TableStoryArcs,
		store.TableWorldRules,
	}
	got := propagation.TrackedTables()
	if len(got) != len(want) {
		t.Fatalf("expected %d tracked tables, got %v", len(want), got)
	}
	for i, table := range want {
		if got[i] != table {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
