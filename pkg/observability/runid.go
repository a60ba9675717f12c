package observability

import "context"

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// runIDKey is the context key for the pipeline run id.
const runIDKey ctxKey = 0

// WithRunID returns a context carrying a pipeline run id. The pipeline
// attaches one per Execute call so hook implementations can correlate
// the load, typeset, and export events of a single run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID returns the run id attached to ctx, or "" when none is set.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}
