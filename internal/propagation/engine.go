package propagation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sceneflow/internal/config"
	"sceneflow/internal/logging"
	"sceneflow/internal/store"
)

// QueuedJob describes one regeneration job created by a batch, for logging
// and metrics on the caller's side.
type QueuedJob struct {
	JobID       int64
	SceneID     int64
	Scope       string
	TriggeredBy int64
}

// Engine claims pending changelog entries and turns them into deduplicated
// regeneration jobs.
type Engine struct {
	store    *store.Store
	resolver *Resolver
	logger   *slog.Logger
	workerID string

	batchLimit int
	lease      time.Duration
	priority   int
}

// NewEngine constructs an engine with a fresh worker identity. Multiple
// engines (in one process or many) can drain the same changelog; the claim
// lease keeps them off each other's entries.
func NewEngine(st *store.Store, logger *slog.Logger, cfg *config.Config) *Engine {
	settings := config.Default().Propagation
	if cfg != nil {
		settings = cfg.Propagation
	}
	return &Engine{
		store:      st,
		resolver:   NewResolver(st),
		logger:     logging.WithComponent(logger, "propagation"),
		workerID:   uuid.NewString(),
		batchLimit: settings.BatchLimit,
		lease:      time.Duration(settings.ClaimLeaseSeconds) * time.Second,
		priority:   settings.DefaultPriority,
	}
}

// WorkerID returns the engine's claim identity.
func (e *Engine) WorkerID() string {
	return e.workerID
}

// ProcessPendingChanges claims up to limit pending changelog entries (oldest
// first, skipping entries claimed by concurrent workers) and resolves each
// one: compute the affected scenes, enqueue deduplicated regeneration jobs,
// and mark the entry complete, as one transaction per entry.
//
// The returned descriptors cover only newly created jobs; scenes already
// covered by a queued job for the same scope produce none. Database failures
// propagate to the caller, whose retry schedule is the recovery mechanism —
// an entry that fails mid-resolution stays pending and is reclaimed after its
// lease lapses.
func (e *Engine) ProcessPendingChanges(ctx context.Context, limit int) ([]QueuedJob, error) {
	if limit <= 0 {
		limit = e.batchLimit
	}

	events, err := e.store.ClaimPendingChanges(ctx, e.workerID, limit, e.lease)
	if err != nil {
		return nil, fmt.Errorf("claim batch: %w", err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	created := make([]QueuedJob, 0, len(events))
	for _, event := range events {
		scenes, err := e.resolver.AffectedScenes(ctx, event.TableName, event.RecordID)
		if err != nil {
			_ = e.store.ReleaseClaim(ctx, event.ID, e.workerID)
			return created, fmt.Errorf("resolve change %d: %w", event.ID, err)
		}

		jobs, err := e.store.CompleteChange(ctx, event.ID, scenes, event.PropagationScope, e.priority)
		if err != nil {
			_ = e.store.ReleaseClaim(ctx, event.ID, e.workerID)
			return created, fmt.Errorf("complete change %d: %w", event.ID, err)
		}

		for _, job := range jobs {
			created = append(created, QueuedJob{
				JobID:       job.ID,
				SceneID:     job.SceneID,
				Scope:       job.GenerationScope,
				TriggeredBy: job.TriggeredBy,
			})
		}

		e.logger.Info("change propagated",
			slog.Int64(logging.FieldChangeID, event.ID),
			slog.String(logging.FieldEntity, event.TableName),
			slog.String(logging.FieldRecordID, event.RecordID),
			slog.String(logging.FieldScope, event.PropagationScope),
			slog.Int("affected_scenes", len(scenes)),
			slog.Int("jobs_created", len(jobs)),
			slog.Int("jobs_deduplicated", len(scenes)-len(jobs)),
		)
	}

	e.logger.Info("batch complete",
		slog.String(logging.FieldWorkerID, e.workerID),
		slog.Int("changes", len(events)),
		slog.Int("jobs_created", len(created)),
	)
	return created, nil
}

// QueueStatus reports job counts by status and scope plus the changelog
// backlog. Read-only.
func (e *Engine) QueueStatus(ctx context.Context) (store.QueueStatus, error) {
	return e.store.QueueStatusSnapshot(ctx)
}

// StaleScenes reports the scenes in a project with outstanding queued jobs.
// Read-only.
func (e *Engine) StaleScenes(ctx context.Context, projectID int64) ([]store.StaleScene, error) {
	return e.store.StaleScenes(ctx, projectID)
}
