package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	stageKey   contextKey = "stage"
	footageKey contextKey = "footage"
	shotKey    contextKey = "shot"
)

// WithRunID annotates context with the ingest run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the processing stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithFootage annotates context with the footage path being processed.
func WithFootage(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, footageKey, path)
}

// FootageFromContext returns the footage path if present.
func FootageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(footageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithShot annotates context with the shot number being processed.
func WithShot(ctx context.Context, shot int) context.Context {
	return context.WithValue(ctx, shotKey, shot)
}

// ShotFromContext returns the shot number if present.
func ShotFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(shotKey).(int)
	return v, ok
}
