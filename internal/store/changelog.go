package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// RecordChange inserts a pending changelog entry for a tracked entity
// mutation. recordID is stored as text so integer and UUID keyed entities
// share one changelog.
func (s *Store) RecordChange(ctx context.Context, tableName, recordID, fieldChanged, scope string) (*ChangeEvent, error) {
	if scope == "" {
		scope = "all"
	}
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO change_log (table_name, record_id, field_changed, propagation_scope, propagation_status, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		tableName,
		recordID,
		nullableString(fieldChanged),
		scope,
		ChangePending,
		nowTimestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert change: %w", err)
	}
	id, err := lastInsertID(res)
	if err != nil {
		return nil, err
	}
	return s.GetChange(ctx, id)
}

// GetChange fetches a changelog entry by identifier. Returns nil when absent.
func (s *Store) GetChange(ctx context.Context, id int64) (*ChangeEvent, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+changeEventColumns+` FROM change_log WHERE id = ?`,
		id,
	)
	event, err := scanChangeEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get change: %w", err)
	}
	return event, nil
}

// ClaimPendingChanges stamps up to limit of the oldest pending changelog
// entries with this worker's claim and returns them oldest first.
//
// SQLite has no SELECT ... FOR UPDATE SKIP LOCKED, so claiming uses a lease
// marker instead: a single UPDATE claims rows that are unclaimed or whose
// claim lease has expired. Entries carrying a live claim from another worker
// are simply excluded from the batch, never waited on, which gives the same
// non-blocking skip semantics. SQLite serializes writers, so two concurrent
// claimers can never stamp the same row.
func (s *Store) ClaimPendingChanges(ctx context.Context, workerID string, limit int, lease time.Duration) ([]ChangeEvent, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	cutoff := now.Add(-lease).Format(time.RFC3339Nano)
	if _, err := s.execWithRetry(
		ctx,
		`UPDATE change_log SET claimed_by = ?, claimed_at = ?
         WHERE id IN (
             SELECT id FROM change_log
             WHERE propagation_status = ?
               AND (claimed_at IS NULL OR claimed_at < ? OR claimed_by = ?)
             ORDER BY created_at ASC, id ASC
             LIMIT ?
         )`,
		workerID,
		now.Format(time.RFC3339Nano),
		ChangePending,
		cutoff,
		workerID,
		limit,
	); err != nil {
		return nil, fmt.Errorf("claim pending changes: %w", err)
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+changeEventColumns+` FROM change_log
         WHERE propagation_status = ? AND claimed_by = ?
         ORDER BY created_at ASC, id ASC`,
		ChangePending,
		workerID,
	)
	if err != nil {
		return nil, fmt.Errorf("load claimed changes: %w", err)
	}
	defer rows.Close()

	var events []ChangeEvent
	for rows.Next() {
		event, err := scanChangeEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claimed change: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claimed changes: %w", err)
	}
	return events, nil
}

// ReleaseClaim drops this worker's claim on a changelog entry so another
// invocation can pick it up without waiting for the lease to lapse. Used when
// resolution fails partway; best effort.
func (s *Store) ReleaseClaim(ctx context.Context, changeID int64, workerID string) error {
	if _, err := s.execWithRetry(
		ctx,
		`UPDATE change_log SET claimed_by = NULL, claimed_at = NULL WHERE id = ? AND claimed_by = ?`,
		changeID,
		workerID,
	); err != nil {
		return fmt.Errorf("release claim: %w", err)
	}
	return nil
}

// CompleteChange enqueues deduplicated regeneration jobs for every affected
// scene and flips the changelog entry to complete, all in one transaction.
// A scene/scope pair that already has a queued job is skipped; only newly
// inserted jobs are returned. Re-running after a crash is safe: the dedup
// check (and the partial unique index behind it) prevents double-queuing.
func (s *Store) CompleteChange(ctx context.Context, changeID int64, scenes []int64, scope string, priority int) ([]Job, error) {
	ctx = ensureContext(ctx)
	timestamp := nowTimestamp()

	var created []Job
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		created = created[:0]
		for _, sceneID := range scenes {
			var existing int64
			err := tx.QueryRowContext(
				ctx,
				`SELECT id FROM regeneration_queue WHERE scene_id = ? AND generation_scope = ? AND status = ?`,
				sceneID, scope, JobQueued,
			).Scan(&existing)
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("check queued job: %w", err)
			}

			res, err := tx.ExecContext(
				ctx,
				`INSERT INTO regeneration_queue (scene_id, generation_scope, priority, status, triggered_by, created_at, updated_at)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				sceneID, scope, priority, JobQueued, changeID, timestamp, timestamp,
			)
			if err != nil {
				return fmt.Errorf("insert job: %w", err)
			}
			jobID, err := lastInsertID(res)
			if err != nil {
				return err
			}
			created = append(created, Job{
				ID:              jobID,
				SceneID:         sceneID,
				GenerationScope: scope,
				Priority:        priority,
				Status:          JobQueued,
				TriggeredBy:     changeID,
			})
		}

		encoded, err := encodeSceneIDs(scenes)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(
			ctx,
			`UPDATE change_log
             SET propagation_status = ?, affected_scenes = ?, claimed_by = NULL, claimed_at = NULL
             WHERE id = ? AND propagation_status = ?`,
			ChangeComplete, encoded, changeID, ChangePending,
		)
		if err != nil {
			return fmt.Errorf("complete change: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("change %d is no longer pending", changeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// PendingChangeCount reports how many changelog entries still await
// propagation.
func (s *Store) PendingChangeCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT COUNT(1) FROM change_log WHERE propagation_status = ?`,
		ChangePending,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending changes: %w", err)
	}
	return count, nil
}

// ListChanges returns the most recent changelog entries, newest first.
func (s *Store) ListChanges(ctx context.Context, limit int) ([]ChangeEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+changeEventColumns+` FROM change_log ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var events []ChangeEvent
	for rows.Next() {
		event, err := scanChangeEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return events, nil
}

func encodeSceneIDs(scenes []int64) (string, error) {
	if scenes == nil {
		scenes = []int64{}
	}
	encoded, err := json.Marshal(scenes)
	if err != nil {
		return "", fmt.Errorf("encode affected scenes: %w", err)
	}
	return string(encoded), nil
}

func decodeSceneIDs(value string) ([]int64, error) {
	var scenes []int64
	if err := json.Unmarshal([]byte(value), &scenes); err != nil {
		return nil, fmt.Errorf("decode affected scenes %q: %w", value, err)
	}
	return scenes, nil
}

// FormatRecordID renders an integer entity key the way RecordChange stores it.
func FormatRecordID(id int64) string {
	return strconv.FormatInt(id, 10)
}
