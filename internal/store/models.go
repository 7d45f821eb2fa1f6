package store

import (
	"time"
)

// ChangeStatus represents the lifecycle of a changelog entry.
type ChangeStatus string

const (
	ChangePending  ChangeStatus = "pending"
	ChangeComplete ChangeStatus = "complete"
)

// JobStatus represents the lifecycle of a regeneration job. This engine only
// ever writes JobQueued; external regeneration workers own every later
// transition.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Tracked entity tables, as recorded in change_log.table_name.
const (
	TableCharacters         = "characters"
	TableStoryArcs          = "story_arcs"
	TableEpisodes           = "episodes"
	TableScenes             = "scenes"
	TableProductionProfiles = "production_profiles"
	TableWorldRules         = "world_rules"
)

// ChangeEvent is one recorded attribute change to a tracked entity, awaiting
// propagation to the scenes it invalidates.
type ChangeEvent struct {
	ID                int64
	TableName         string
	RecordID          string
	FieldChanged      string
	PropagationScope  string
	PropagationStatus ChangeStatus
	AffectedScenes    []int64
	ClaimedBy         string
	ClaimedAt         time.Time
	CreatedAt         time.Time
}

// Job is one regeneration queue entry signaling that a scene's artifact
// category is stale.
type Job struct {
	ID              int64
	SceneID         int64
	GenerationScope string
	Priority        int
	Status          JobStatus
	TriggeredBy     int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// JobCount is one aggregation bucket from QueueStatus.
type JobCount struct {
	Status JobStatus
	Scope  string
	Count  int
}

// QueueStatus summarizes the regeneration queue and the changelog backlog.
type QueueStatus struct {
	Jobs           []JobCount
	PendingChanges int
}

// StaleScene is a scene with at least one queued regeneration job, joined
// with display metadata for dashboards.
type StaleScene struct {
	SceneID          int64
	EpisodeID        int64
	Sequence         int
	Tone             string
	GenerationStatus string
	QueuedScopes     []string
}

// Scene is a catalog scene row.
type Scene struct {
	ID               int64
	EpisodeID        int64
	Sequence         int
	Tone             string
	GenerationStatus string
	CreatedAt        time.Time
}
