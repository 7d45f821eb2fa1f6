package store

import (
	"database/sql"
	"strings"
	"time"
)

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value string) time.Time {
	if strings.TrimSpace(value) == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}

func scanChangeEvent(scanner interface{ Scan(dest ...any) error }) (*ChangeEvent, error) {
	var (
		id           int64
		tableName    string
		recordID     string
		fieldChanged sql.NullString
		scope        string
		status       string
		affected     sql.NullString
		claimedBy    sql.NullString
		claimedAtRaw sql.NullString
		createdRaw   string
	)
	if err := scanner.Scan(
		&id,
		&tableName,
		&recordID,
		&fieldChanged,
		&scope,
		&status,
		&affected,
		&claimedBy,
		&claimedAtRaw,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	event := &ChangeEvent{
		ID:                id,
		TableName:         tableName,
		RecordID:          recordID,
		FieldChanged:      fieldChanged.String,
		PropagationScope:  scope,
		PropagationStatus: ChangeStatus(status),
		ClaimedBy:         claimedBy.String,
		ClaimedAt:         parseTimestamp(claimedAtRaw.String),
		CreatedAt:         parseTimestamp(createdRaw),
	}
	if affected.Valid {
		scenes, err := decodeSceneIDs(affected.String)
		if err != nil {
			return nil, err
		}
		event.AffectedScenes = scenes
	}
	return event, nil
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id          int64
		sceneID     int64
		scope       string
		priority    int
		status      string
		triggeredBy sql.NullInt64
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(
		&id,
		&sceneID,
		&scope,
		&priority,
		&status,
		&triggeredBy,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	return &Job{
		ID:              id,
		SceneID:         sceneID,
		GenerationScope: scope,
		Priority:        priority,
		Status:          JobStatus(status),
		TriggeredBy:     triggeredBy.Int64,
		CreatedAt:       parseTimestamp(createdRaw),
		UpdatedAt:       parseTimestamp(updatedRaw),
	}, nil
}

const changeEventColumns = "id, table_name, record_id, field_changed, propagation_scope, propagation_status, affected_scenes, claimed_by, claimed_at, created_at"

const jobColumns = "id, scene_id, generation_scope, priority, status, triggered_by, created_at, updated_at"
