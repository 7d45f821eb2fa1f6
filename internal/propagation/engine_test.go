package propagation_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"sceneflow/internal/logging"
	"sceneflow/internal/propagation"
	"sceneflow/internal/store"
	"sceneflow/internal/testsupport"
)

func newEngine(t *testing.T, st *store.Store) *propagation.Engine {
	t.Helper()
	return propagation.NewEngine(st, logging.NewNop(), testsupport.NewConfig(t))
}

func TestProcessPendingChangesEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	engine := propagation.NewEngine(st, logging.NewNop(), cfg)

	ctx := context.Background()
	event, err := st.RecordChange(ctx, store.TableCharacters, store.FormatRecordID(cat.CharacterID), "hair_color", "visual")
	if err != nil {
		t.Fatalf("RecordChange failed: %v", err)
	}

	jobs, err := engine.ProcessPendingChanges(ctx, 0)
	if err != nil {
		t.Fatalf("ProcessPendingChanges failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs for scenes A and B, got %d", len(jobs))
	}
	sceneIDs := []int64{jobs[0].SceneID, jobs[1].SceneID}
	if !reflect.DeepEqual(sceneIDs, []int64{cat.SceneA, cat.SceneB}) {
		t.Fatalf("unexpected scenes %v", sceneIDs)
	}
	for _, job := range jobs {
		if job.TriggeredBy != event.ID {
			t.Fatalf("expected job traced back to change %d, got %d", event.ID, job.TriggeredBy)
		}
		if job.Scope != "visual" {
			t.Fatalf("expected propagation scope carried through, got %q", job.Scope)
		}
	}

	resolved, err := st.GetChange(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetChange failed: %v", err)
	}
	if resolved.PropagationStatus != store.ChangeComplete {
		t.Fatalf("expected change marked complete, got %q", resolved.PropagationStatus)
	}
	if !reflect.DeepEqual(resolved.AffectedScenes, []int64{cat.SceneA, cat.SceneB}) {
		t.Fatalf("unexpected audit scene set %v", resolved.AffectedScenes)
	}
}

func TestProcessPendingChangesIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	engine := propagation.NewEngine(st, logging.NewNop(), cfg)

	ctx := context.Background()
	event, err := st.RecordChange(ctx, store.TableEpisodes, store.FormatRecordID(cat.EpisodeOne), "", "writing")
	if err != nil {
		t.Fatalf("RecordChange failed: %v", err)
	}

	first, err := engine.ProcessPendingChanges(ctx, 0)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 jobs on first run, got %d", len(first))
	}
	audited, err := st.GetChange(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetChange failed: %v", err)
	}

	second, err := engine.ProcessPendingChanges(ctx, 0)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected no-op second run, got %d jobs", len(second))
	}

	// The audit record must not change on later runs.
	after, err := st.GetChange(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetChange failed: %v", err)
	}
	if !reflect.DeepEqual(audited.AffectedScenes, after.AffectedScenes) {
		t.Fatalf("affected scenes changed across runs: %v vs %v", audited.AffectedScenes, after.AffectedScenes)
	}
}

func TestProcessPendingChangesRespectsLimitFIFO(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	engine := propagation.NewEngine(st, logging.NewNop(), cfg)

	ctx := context.Background()
	var events []*store.ChangeEvent
	for _, scene := range []int64{cat.SceneA, cat.SceneB, cat.SceneC} {
		event, err := st.RecordChange(ctx, store.TableScenes, store.FormatRecordID(scene), "", "visual")
		if err != nil {
			t.Fatalf("RecordChange failed: %v", err)
		}
		events = append(events, event)
	}

	if _, err := engine.ProcessPendingChanges(ctx, 2); err != nil {
		t.Fatalf("ProcessPendingChanges failed: %v", err)
	}

	for i, event := range events[:2] {
		got, err := st.GetChange(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetChange failed: %v", err)
		}
		if got.PropagationStatus != store.ChangeComplete {
			t.Fatalf("expected event %d (insert order %d) resolved, got %q", event.ID, i, got.PropagationStatus)
		}
	}
	third, err := st.GetChange(ctx, events[2].ID)
	if err != nil {
		t.Fatalf("GetChange failed: %v", err)
	}
	if third.PropagationStatus != store.ChangePending {
		t.Fatalf("expected newest event to stay pending, got %q", third.PropagationStatus)
	}
}

func TestProcessPendingChangesCompletesUnknownTables(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	engine := propagation.NewEngine(st, logging.NewNop(), cfg)

	ctx := context.Background()
	event, err := st.RecordChange(ctx, "voice_models", "12", "", "audio")
	if err != nil {
		t.Fatalf("RecordChange failed: %v", err)
	}

	jobs, err := engine.ProcessPendingChanges(ctx, 0)
	if err != nil {
		t.Fatalf("ProcessPendingChanges failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs for unknown entity kind, got %d", len(jobs))
	}

	resolved, err := st.GetChange(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetChange failed: %v", err)
	}
	if resolved.PropagationStatus != store.ChangeComplete {
		t.Fatalf("unknown entity kinds must still complete, got %q", resolved.PropagationStatus)
	}
	if len(resolved.AffectedScenes) != 0 {
		t.Fatalf("expected empty audit set, got %v", resolved.AffectedScenes)
	}
}

func TestConcurrentEnginesNeverShareAnEvent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)

	ctx := context.Background()
	for _, scene := range []int64{cat.SceneA, cat.SceneB, cat.SceneC} {
		if _, err := st.RecordChange(ctx, store.TableScenes, store.FormatRecordID(scene), "", "visual"); err != nil {
			t.Fatalf("RecordChange failed: %v", err)
		}
	}

	// Worker A claims two events and stops before resolving them, simulating
	// an in-flight batch. Worker B must skip those and drain only the rest.
	held, err := st.ClaimPendingChanges(ctx, "worker-a", 2, 30*time.Second)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if len(held) != 2 {
		t.Fatalf("expected worker-a to hold 2 events, got %d", len(held))
	}

	engine := newEngine(t, st)
	jobs, err := engine.ProcessPendingChanges(ctx, 10)
	if err != nil {
		t.Fatalf("ProcessPendingChanges failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected engine to process only the unheld event, got %d jobs", len(jobs))
	}
	if jobs[0].SceneID != cat.SceneC {
		t.Fatalf("expected the unheld scene %d, got %d", cat.SceneC, jobs[0].SceneID)
	}

	pending, err := st.PendingChangeCount(ctx)
	if err != nil {
		t.Fatalf("PendingChangeCount failed: %v", err)
	}
	if pending != 2 {
		t.Fatalf("expected the held events to stay pending, got %d", pending)
	}
}

func TestEngineStatusViews(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	engine := propagation.NewEngine(st, logging.NewNop(), cfg)

	ctx := context.Background()
	if _, err := st.RecordChange(ctx, store.TableProductionProfiles, cat.ProfileID, "style", "visual"); err != nil {
		t.Fatalf("RecordChange failed: %v", err)
	}
	if _, err := engine.ProcessPendingChanges(ctx, 0); err != nil {
		t.Fatalf("ProcessPendingChanges failed: %v", err)
	}

	status, err := engine.QueueStatus(ctx)
	if err != nil {
		t.Fatalf("QueueStatus failed: %v", err)
	}
	if status.PendingChanges != 0 {
		t.Fatalf("expected drained changelog, got %d pending", status.PendingChanges)
	}
	if len(status.Jobs) != 1 || status.Jobs[0].Count != 3 || status.Jobs[0].Scope != "visual" {
		t.Fatalf("unexpected queue buckets %#v", status.Jobs)
	}

	stale, err := engine.StaleScenes(ctx, cat.ProjectID)
	if err != nil {
		t.Fatalf("StaleScenes failed: %v", err)
	}
	if len(stale) != 3 {
		t.Fatalf("expected all project scenes stale, got %d", len(stale))
	}
}
