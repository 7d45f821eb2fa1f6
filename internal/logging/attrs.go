package logging

import (
	"log/slog"
)

// Shared field names keep log lines queryable across components.
const (
	FieldComponent = "component"
	FieldChangeID  = "change_id"
	FieldEntity    = "entity"
	FieldRecordID  = "record_id"
	FieldScope     = "scope"
	FieldSceneID   = "scene_id"
	FieldWorkerID  = "worker_id"
)

// Error renders an error value under a consistent key.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// WithComponent labels every record from the returned logger.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}
