package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Catalog writes. These exist for the upstream tooling that mutates entities
// (the CLI record/seed verbs and tests); the propagation engine itself only
// reads the catalog.

// CreateProductionProfile inserts a production profile and returns its UUID.
func (s *Store) CreateProductionProfile(ctx context.Context, name, style string) (string, error) {
	id := uuid.NewString()
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO production_profiles (id, name, style, created_at) VALUES (?, ?, ?, ?)`,
		id, name, nullableString(style), nowTimestamp(),
	)
	if err != nil {
		return "", fmt.Errorf("insert production profile: %w", err)
	}
	return id, nil
}

// CreateProject inserts a project referencing an optional production profile.
func (s *Store) CreateProject(ctx context.Context, title, productionProfileID string) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO projects (title, production_profile_id, created_at) VALUES (?, ?, ?)`,
		title, nullableString(productionProfileID), nowTimestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return lastInsertID(res)
}

// CreateWorldRule inserts a world rule owned by a project.
func (s *Store) CreateWorldRule(ctx context.Context, projectID int64, name, ruleText string) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO world_rules (project_id, name, rule_text, created_at) VALUES (?, ?, ?, ?)`,
		projectID, name, nullableString(ruleText), nowTimestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert world rule: %w", err)
	}
	return lastInsertID(res)
}

// CreateEpisode inserts an episode under a project.
func (s *Store) CreateEpisode(ctx context.Context, projectID int64, number int, title string) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO episodes (project_id, number, title, created_at) VALUES (?, ?, ?, ?)`,
		projectID, number, nullableString(title), nowTimestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert episode: %w", err)
	}
	return lastInsertID(res)
}

// CreateScene inserts a scene under an episode.
func (s *Store) CreateScene(ctx context.Context, episodeID int64, sequence int, tone string) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO scenes (episode_id, sequence, tone, generation_status, created_at) VALUES (?, ?, ?, 'draft', ?)`,
		episodeID, sequence, nullableString(tone), nowTimestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert scene: %w", err)
	}
	return lastInsertID(res)
}

// CreateCharacter inserts a character.
func (s *Store) CreateCharacter(ctx context.Context, name string) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO characters (name, created_at) VALUES (?, ?)`,
		name, nowTimestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert character: %w", err)
	}
	return lastInsertID(res)
}

// CreateStoryArc inserts a story arc.
func (s *Store) CreateStoryArc(ctx context.Context, name string) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO story_arcs (name, created_at) VALUES (?, ?)`,
		name, nowTimestamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert story arc: %w", err)
	}
	return lastInsertID(res)
}

// AddSceneCharacter records character membership in a scene.
func (s *Store) AddSceneCharacter(ctx context.Context, sceneID, characterID int64) error {
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO scene_characters (scene_id, character_id) VALUES (?, ?)`,
		sceneID, characterID,
	); err != nil {
		return fmt.Errorf("link scene character: %w", err)
	}
	return nil
}

// AddSceneStoryArc records arc membership for a scene.
func (s *Store) AddSceneStoryArc(ctx context.Context, sceneID, storyArcID int64) error {
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO scene_story_arcs (scene_id, story_arc_id) VALUES (?, ?)`,
		sceneID, storyArcID,
	); err != nil {
		return fmt.Errorf("link scene story arc: %w", err)
	}
	return nil
}

// GetScene fetches a scene by identifier. Returns nil when absent.
func (s *Store) GetScene(ctx context.Context, id int64) (*Scene, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT id, episode_id, sequence, tone, generation_status, created_at FROM scenes WHERE id = ?`,
		id,
	)
	var (
		scene      Scene
		tone       sql.NullString
		createdRaw string
	)
	err := row.Scan(&scene.ID, &scene.EpisodeID, &scene.Sequence, &tone, &scene.GenerationStatus, &createdRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scene: %w", err)
	}
	scene.Tone = tone.String
	scene.CreatedAt = parseTimestamp(createdRaw)
	return &scene, nil
}

func lastInsertID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}
