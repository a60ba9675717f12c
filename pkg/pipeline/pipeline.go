// Package pipeline provides the core document pipeline for Folio.
//
// This package implements the complete load → typeset → export pipeline
// that can be used by CLI and preview server components. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse a TOML manifest into a content tree and style chain
//  2. Typeset: Run the relayout loop until cross-references stabilize
//  3. Export: Generate output in various formats (JSON, SVG, DOT)
//
// Each stage can be run independently or as part of the complete
// pipeline. Every stage is cached by the fingerprints of its inputs, so
// an unchanged manifest costs one cache read per stage.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ManifestPath: "report.toml",
//	    Formats:      []string{"json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := result.Artifacts["json"]
//
// Run individual stages:
//
//	// Load only
//	loaded, err := runner.Load(ctx, opts)
//
//	// Typeset with loaded content
//	res, err := runner.Typeset(ctx, loaded, opts)
//
//	// Export with an existing document
//	artifacts, err := runner.Export(ctx, res.Document, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/foliokit/folio/pkg/cache"
	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/manifest"
	"github.com/foliokit/folio/pkg/typeset"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Preview Server
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
)

// DefaultFormat is the format produced when none are requested.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the document pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	ManifestPath string `json:"manifest_path,omitempty"`
	Manifest     string `json:"manifest,omitempty"` // Inline TOML content (takes precedence over ManifestPath)
	Refresh      bool   `json:"refresh,omitempty"`

	// Typeset options
	Styles map[string]any `json:"styles,omitempty"` // Style overrides applied over the manifest's styles

	// Export options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Annotate DOT output with positions and sizes

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this Execute call in logs and hook events.
	RunID string

	// Loaded is the parsed manifest content.
	Loaded *manifest.Loaded

	// ContentHash is the fingerprint of the loaded content tree.
	ContentHash string

	// Document is the typeset document.
	Document *doc.Document

	// DocumentHash is the content hash of the serialized document.
	DocumentHash string

	// Passes is the number of layout passes the typeset stage ran.
	Passes int

	// Converged reports whether typesetting stabilized within the pass
	// budget.
	Converged bool

	// Introspector indexes the final document for selector queries.
	Introspector *typeset.Introspector

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount  int
	PageCount   int
	LoadTime    time.Duration
	TypesetTime time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit    bool // Whether loaded content came from cache
	TypesetHit bool // Whether the typeset document came from cache
	ExportHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, svg, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForTypeset(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.ManifestPath == "" && o.Manifest == "" {
		return fmt.Errorf("manifest path or inline manifest is required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// ValidateForTypeset checks style overrides for typesetting.
func (o *Options) ValidateForTypeset() error {
	for key := range o.Styles {
		if err := errors.ValidateStyleKey(key); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	return ValidateFormats(o.Formats)
}

// ApplyStyles returns the given style chain with this run's overrides
// applied on top.
func (o *Options) ApplyStyles(s doc.Styles) doc.Styles {
	for key, value := range o.Styles {
		s = s.With(key, value)
	}
	return s
}

// ManifestSource names the manifest input for logs and hooks.
func (o *Options) ManifestSource() string {
	if o.Manifest != "" {
		return "(inline)"
	}
	return o.ManifestPath
}

// ExportKeyOpts returns cache key options for artifact export.
func (o *Options) ExportKeyOpts(format string) cache.ExportKeyOpts {
	return cache.ExportKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
