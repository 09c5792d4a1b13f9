package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	targetKey contextKey = "target"
)

// WithRunID annotates context with the download run identifier.
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

// WithTarget annotates context with the video path a worker is processing.
func WithTarget(ctx context.Context, target string) context.Context {
	if target == "" {
		return ctx
	}
	return context.WithValue(ctx, targetKey, target)
}

// TargetFromContext extracts the worker target if present.
func TargetFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(targetKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
