package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// QueueStatusSnapshot aggregates regeneration jobs by status and scope and
// reports the changelog backlog. Reads are not isolated from concurrent
// writers; counts are a monitoring view, not a correctness input.
func (s *Store) QueueStatusSnapshot(ctx context.Context) (QueueStatus, error) {
	ctx = ensureContext(ctx)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT status, generation_scope, COUNT(1)
         FROM regeneration_queue
         GROUP BY status, generation_scope
         ORDER BY status, generation_scope`,
	)
	if err != nil {
		return QueueStatus{}, fmt.Errorf("aggregate jobs: %w", err)
	}
	defer rows.Close()

	status := QueueStatus{}
	for rows.Next() {
		var bucket JobCount
		var statusStr string
		if err := rows.Scan(&statusStr, &bucket.Scope, &bucket.Count); err != nil {
			return QueueStatus{}, fmt.Errorf("scan job bucket: %w", err)
		}
		bucket.Status = JobStatus(statusStr)
		status.Jobs = append(status.Jobs, bucket)
	}
	if err := rows.Err(); err != nil {
		return QueueStatus{}, fmt.Errorf("iterate job buckets: %w", err)
	}

	pending, err := s.PendingChangeCount(ctx)
	if err != nil {
		return QueueStatus{}, err
	}
	status.PendingChanges = pending
	return status, nil
}

// StaleScenes returns the distinct scenes within a project that currently
// have at least one queued regeneration job, with display metadata, ordered
// by episode and sequence.
func (s *Store) StaleScenes(ctx context.Context, projectID int64) ([]StaleScene, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT s.id, s.episode_id, s.sequence, COALESCE(s.tone, ''), s.generation_status,
                GROUP_CONCAT(q.generation_scope)
         FROM scenes s
         JOIN episodes e ON e.id = s.episode_id
         JOIN regeneration_queue q ON q.scene_id = s.id AND q.status = ?
         WHERE e.project_id = ?
         GROUP BY s.id, s.episode_id, s.sequence, s.tone, s.generation_status
         ORDER BY s.episode_id, s.sequence, s.id`,
		JobQueued,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query stale scenes: %w", err)
	}
	defer rows.Close()

	var scenes []StaleScene
	for rows.Next() {
		var (
			scene  StaleScene
			scopes string
		)
		if err := rows.Scan(&scene.SceneID, &scene.EpisodeID, &scene.Sequence, &scene.Tone, &scene.GenerationStatus, &scopes); err != nil {
			return nil, fmt.Errorf("scan stale scene: %w", err)
		}
		scene.QueuedScopes = splitScopes(scopes)
		scenes = append(scenes, scene)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale scenes: %w", err)
	}
	return scenes, nil
}

// ListJobs returns regeneration jobs, optionally filtered by status, newest
// first.
func (s *Store) ListJobs(ctx context.Context, statuses ...JobStatus) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM regeneration_queue`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func splitScopes(concatenated string) []string {
	parts := strings.Split(concatenated, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			scopes = append(scopes, trimmed)
		}
	}
	sort.Strings(scopes)
	return scopes
}
