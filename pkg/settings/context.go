package settings

import (
	"context"
)

type contextKey string

const runContextKey contextKey = "run"

// IntoContext attaches the run settings for the current command to ctx.
func IntoContext(ctx context.Context, r *Run) context.Context {
	return context.WithValue(ctx, runContextKey, r)
}

// FromContext returns the run settings stored by IntoContext. ok is false
// when ctx carries none.
func FromContext(ctx context.Context) (*Run, bool) {
	r, ok := ctx.Value(runContextKey).(*Run)
	return r, ok && r != nil
}
