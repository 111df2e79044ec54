package logging

import (
	"context"
	"log/slog"

	"ingest/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one ingest run; it matches the journal run id.
	FieldRunID = "run_id"
	// FieldFootage is the footage path being planned or rendered.
	FieldFootage = "footage"
	// FieldShot is the shot number being planned or rendered.
	FieldShot = "shot"
	// FieldStage names the processing stage (plan, hook, render).
	FieldStage = "stage"
	// FieldEventType categorizes warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if footage, ok := services.FootageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFootage, footage))
	}
	if shot, ok := services.ShotFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldShot, shot))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
