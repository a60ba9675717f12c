package observability

import (
	"context"

	"github.com/charmbracelet/log"
)

// CacheLogHooks logs cache traffic at debug level. The pipeline reports
// hits, misses, and writes only through the cache hooks, so installing
// this is what makes them visible in a debug stream. The CLI installs it
// in verbose mode:
//
//	observability.SetCacheHooks(observability.CacheLogHooks{Logger: logger})
//
// Events are annotated with the run id when the context carries one.
// The typeset and pipeline hook categories have no logging counterpart
// here: the driver and the runner already log those events through their
// own loggers.
type CacheLogHooks struct {
	Logger *log.Logger
}

// with returns the logger annotated with the run id from ctx, if any.
func (h CacheLogHooks) with(ctx context.Context) *log.Logger {
	if id := RunID(ctx); id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		return h.Logger.With("run", id)
	}
	return h.Logger
}

// OnCacheHit logs a cache hit.
func (h CacheLogHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.with(ctx).Debug("cache hit", "stage", keyType)
}

// OnCacheMiss logs a cache miss.
func (h CacheLogHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.with(ctx).Debug("cache miss", "stage", keyType)
}

// OnCacheSet logs a cache write.
func (h CacheLogHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.with(ctx).Debug("cache set", "stage", keyType, "bytes", size)
}

var _ CacheHooks = CacheLogHooks{}
