package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	conceptKey   contextKey = "concept"
	stageKey     contextKey = "stage"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithConcept annotates context with the concept title id being processed.
func WithConcept(ctx context.Context, titleID string) context.Context {
	if titleID == "" {
		return ctx
	}
	return context.WithValue(ctx, conceptKey, titleID)
}

// ConceptFromContext returns the concept title id if present.
func ConceptFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(conceptKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
