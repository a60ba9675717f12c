package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/foliokit/folio/pkg/cache"
	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/layout"
	"github.com/foliokit/folio/pkg/manifest"
	"github.com/foliokit/folio/pkg/observability"
	"github.com/foliokit/folio/pkg/typeset"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and preview server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → typeset → export pipeline with caching.
//
// Each call gets a fresh run id, attached to the context for hook
// implementations and to the runner's log lines for correlation.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	logger := r.Logger.With("run", runID[:8])

	hooks := observability.Pipeline()
	source := opts.ManifestSource()

	result := &Result{
		RunID:     runID,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	hooks.OnLoadStart(ctx, source)
	loaded, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, time.Since(loadStart), err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Loaded = loaded
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.BlockCount = loaded.Blocks
	result.CacheInfo.LoadHit = loadHit
	result.ContentHash = loaded.Content.Fingerprint().String()
	hooks.OnLoadComplete(ctx, source, loaded.Blocks, result.Stats.LoadTime, nil)

	logger.Info("loaded manifest",
		"blocks", loaded.Blocks,
		"duration", result.Stats.LoadTime)

	// Stage 2: Typeset
	typesetStart := time.Now()
	hooks.OnTypesetStart(ctx, result.ContentHash)
	res, typesetHit, err := r.TypesetWithCacheInfo(ctx, loaded, opts)
	if err != nil {
		hooks.OnTypesetComplete(ctx, result.ContentHash, 0, 0, time.Since(typesetStart), err)
		return nil, fmt.Errorf("typeset: %w", err)
	}
	result.Document = res.Document
	result.Passes = res.Passes
	result.Converged = res.Converged
	result.Introspector = res.Introspector
	result.Stats.TypesetTime = time.Since(typesetStart)
	result.Stats.PageCount = len(res.Document.Pages)
	result.CacheInfo.TypesetHit = typesetHit

	// A capped run leaves the index one pass behind; refresh it so
	// queries see the document actually returned.
	if !res.Converged && res.Introspector != nil {
		res.Introspector.Update(res.Document)
	}
	hooks.OnTypesetComplete(ctx, result.ContentHash, res.Passes, len(res.Document.Pages), result.Stats.TypesetTime, nil)

	// Compute document hash for cache keys and API responses
	if docData, err := doc.MarshalDocument(res.Document); err == nil {
		result.DocumentHash = cache.Hash(docData)
	}

	logger.Info("typeset document",
		"pages", len(res.Document.Pages),
		"passes", res.Passes,
		"converged", res.Converged,
		"duration", result.Stats.TypesetTime)

	// Stage 3: Export
	exportStart := time.Now()
	hooks.OnExportStart(ctx, opts.Formats)
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, res.Document, opts)
	if err != nil {
		hooks.OnExportComplete(ctx, opts.Formats, time.Since(exportStart), err)
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit
	hooks.OnExportComplete(ctx, opts.Formats, result.Stats.ExportTime, nil)

	logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// LoadWithCacheInfo loads a manifest with caching and returns cache hit info.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*manifest.Loaded, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	data, source, err := readManifest(opts)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.ContentKey(cache.Hash(data))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			loaded, err := manifest.UnmarshalLoaded(cached)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "content")
				return loaded, true, nil // Cache hit
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "content")

	// Load
	loaded, err := manifest.Load(data, source)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if !opts.Refresh {
		if encoded, err := manifest.MarshalLoaded(loaded); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLContent)
			observability.Cache().OnCacheSet(ctx, "content", len(encoded))
		}
	}

	return loaded, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*manifest.Loaded, error) {
	loaded, _, err := r.LoadWithCacheInfo(ctx, opts)
	return loaded, err
}

// TypesetWithCacheInfo typesets loaded content with caching and returns cache hit info.
func (r *Runner) TypesetWithCacheInfo(ctx context.Context, loaded *manifest.Loaded, opts Options) (*typeset.Result, bool, error) {
	if err := opts.ValidateForTypeset(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the content tree, style chain, and engine
	// version: a change to any of them invalidates the entry.
	styles := opts.ApplyStyles(loaded.Styles)
	contentHash := loaded.Content.Fingerprint().String()
	cacheKey := r.Keyer.TypesetKey(contentHash, cache.TypesetKeyOpts{
		StylesHash:     styles.Fingerprint().String(),
		LibraryVersion: layout.Version,
	})

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := decodeTypesetting(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "typeset")
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "typeset")

	// Typeset
	res, err := TypesetContent(loaded.Content, styles, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := encodeTypesetting(res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLTypeset)
		observability.Cache().OnCacheSet(ctx, "typeset", len(data))
	}

	return res, false, nil // Cache miss
}

// Typeset is a convenience wrapper that calls TypesetWithCacheInfo and discards the cache hit info.
func (r *Runner) Typeset(ctx context.Context, loaded *manifest.Loaded, opts Options) (*typeset.Result, error) {
	res, _, err := r.TypesetWithCacheInfo(ctx, loaded, opts)
	return res, err
}

// ExportWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, document *doc.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from document data
	docData, err := doc.MarshalDocument(document)
	if err != nil {
		return nil, false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	docHash := cache.Hash(docData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ExportKey(docHash, opts.ExportKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "export")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "export")

	// Export all formats
	exported, err := Export(document, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range exported {
		cacheKey := r.Keyer.ExportKey(docHash, opts.ExportKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLExport)
		observability.Cache().OnCacheSet(ctx, "export", len(data))
	}

	return exported, false, nil // Cache miss
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards the cache hit info.
func (r *Runner) Export(ctx context.Context, document *doc.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, document, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
