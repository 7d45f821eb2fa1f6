package daemon_test

import (
	"context"
	"testing"
	"time"

	"sceneflow/internal/daemon"
	"sceneflow/internal/logging"
	"sceneflow/internal/propagation"
	"sceneflow/internal/store"
	"sceneflow/internal/testsupport"
)

func TestDaemonDrainsChangelog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	cat := testsupport.SeedCatalog(t, st)
	engine := propagation.NewEngine(st, logging.NewNop(), cfg)

	ctx := context.Background()
	if _, err := st.RecordChange(ctx, store.TableScenes, store.FormatRecordID(cat.SceneA), "", "visual"); err != nil {
		t.Fatalf("RecordChange failed: %v", err)
	}

	d, err := daemon.New(cfg, st, engine, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	deadline := time.Now().Add(10 * time.Second)
	for {
		pending, err := st.PendingChangeCount(ctx)
		if err != nil {
			t.Fatalf("PendingChangeCount failed: %v", err)
		}
		if pending == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("daemon did not drain changelog, %d still pending", pending)
		}
		time.Sleep(20 * time.Millisecond)
	}

	jobs, err := st.ListJobs(ctx, store.JobQueued)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].SceneID != cat.SceneA {
		t.Fatalf("unexpected queued jobs %#v", jobs)
	}
}

func TestDaemonEnforcesSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	engine := propagation.NewEngine(st, logging.NewNop(), cfg)

	first, err := daemon.New(cfg, st, engine, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	second, err := daemon.New(cfg, st, engine, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second daemon start to fail while lock is held")
	}

	first.Stop()
	if first.Running() {
		t.Fatal("expected daemon to report stopped")
	}
	// Stop is idempotent.
	first.Stop()
}
