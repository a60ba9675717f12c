// Package pkg provides the core libraries for Folio document typesetting.
//
// # Overview
//
// Folio turns declarative document manifests into paginated documents,
// re-running layout until content that depends on layout results (page
// numbers, cross-references, outlines) has stabilized. The pkg directory
// is organized into five main areas:
//
//  1. Document model - content trees, frames, spans, geometry
//  2. Layout - the relayout driver and the flow layout engine
//  3. Orchestration - manifest loading and the cached pipeline
//  4. Infrastructure - caching, sessions, observability, errors
//  5. Visualization - frame-tree rendering for debugging
//
// # Architecture
//
// The typical data flow through Folio:
//
//	TOML manifest
//	         ↓
//	    [manifest] package (parse blocks, number spans)
//	         ↓
//	    [typeset] package (relayout fixpoint + introspection)
//	         ↓
//	    [layout] package (flow layout into paginated frames)
//	         ↓
//	    [doc] package (document model + serialization)
//	         ↓
//	    JSON / DOT / SVG output
//
// # Quick Start
//
// Load a manifest and typeset it until cross-references resolve:
//
//	import (
//	    "github.com/foliokit/folio/pkg/doc"
//	    "github.com/foliokit/folio/pkg/layout"
//	    "github.com/foliokit/folio/pkg/manifest"
//	    "github.com/foliokit/folio/pkg/typeset"
//	)
//
//	// 1. Load the manifest
//	loaded, _ := manifest.LoadFile("report.toml")
//
//	// 2. Assemble the world the run executes in
//	world := typeset.NewStaticWorld(loaded.Styles, layout.Library())
//
//	// 3. Run layout until layout-dependent content stabilizes
//	res, _ := typeset.Run(world, loaded.Content, typeset.Options{})
//
//	// 4. Export the paginated document
//	data, _ := doc.MarshalDocument(res.Document)
//
// # Main Packages
//
// ## Document Model
//
// [doc] - The shared vocabulary: content trees with fields and spans,
// frame trees with positioned items, paginated documents, selectors,
// locations, and the JSON export format.
//
// [syntax] - Hierarchical span numbering. Spans identify where content
// came from and stay stable under edits elsewhere in the source, which
// keeps element identity stable across typeset runs.
//
// [geom] - Points, sizes, and affine transforms shared by layout and
// rendering.
//
// [fingerprint] - 128-bit content digests used for memoization keys,
// stable identity, and convergence checks.
//
// ## Layout
//
// [typeset] - The relayout driver. [typeset.Run] lays content out
// repeatedly, answering introspection queries from the previous pass,
// until no answer changes or the pass budget is spent. The
// [typeset.Introspector] indexes placed content for queries; the
// stability provider assigns deterministic IDs to equal content.
//
// [layout] - The built-in flow engine: headings, paragraphs, page
// breaks, references, outlines, and the drift probe. Produces one frame
// per page from a content tree and a style chain.
//
// ## Orchestration
//
// [manifest] - TOML manifests. Parses [[block]] entries into a numbered
// content tree rooted at a document element, validates style overrides,
// and fingerprints the raw bytes for caching.
//
// [pipeline] - The load → typeset → export pipeline used by CLI and
// preview server. Each stage is cached content-addressed, so unchanged
// inputs skip straight to the cached result.
//
// ## Infrastructure
//
// [cache] - Content-addressed byte cache behind a single interface.
// FileCache for the CLI (sharded directories, atomic writes), RedisCache
// and MongoCache for shared deployments, NullCache to disable caching.
// Includes retry with backoff for transient backend failures.
//
// [session] - Typeset session storage for the preview server: TTL-bound
// sessions holding manifest source and typeset results, listed newest
// first.
//
// [observability] - Process-wide hooks for typeset passes, pipeline
// stages, cache traffic, and HTTP requests. Defaults are no-ops; hosts
// install their own observers.
//
// [errors] - Coded errors. Every failure carries an [errors.ErrCode]
// that survives wrapping, maps to a user-facing message, and drives
// HTTP status mapping in the preview server.
//
// [buildinfo] - Version, commit, and build date injected via ldflags.
//
// ## Visualization
//
// [render/framedot] - Renders frame trees as Graphviz diagrams for
// visual debugging: DOT text via [framedot.ToDOT], SVG via
// [framedot.RenderSVG].
//
// # Common Workflows
//
// Query placed content after a run:
//
//	res, _ := typeset.Run(world, loaded.Content, typeset.Options{})
//	for _, m := range res.Introspector.Locate(doc.SelectLabel("results")) {
//	    if loc, ok := m.Content.Location(); ok {
//	        fmt.Printf("%s on page %d\n", m.ID, loc.Page)
//	    }
//	}
//
// Run the full cached pipeline:
//
//	runner := pipeline.NewRunner(c, keyer, logger)
//	defer runner.Close()
//	res, _ := runner.Execute(ctx, pipeline.Options{
//	    ManifestPath: "report.toml",
//	    Formats:      []string{"json", "svg"},
//	})
//
// Render a document for inspection:
//
//	dot := framedot.ToDOT(res.Document, framedot.Options{Detailed: true})
//	svg, _ := framedot.RenderSVG(dot)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/typeset/...    # Specific package
//	go test -run Example ./...   # Examples only
//
// [doc]: https://pkg.go.dev/github.com/foliokit/folio/pkg/doc
// [syntax]: https://pkg.go.dev/github.com/foliokit/folio/pkg/syntax
// [geom]: https://pkg.go.dev/github.com/foliokit/folio/pkg/geom
// [fingerprint]: https://pkg.go.dev/github.com/foliokit/folio/pkg/fingerprint
// [typeset]: https://pkg.go.dev/github.com/foliokit/folio/pkg/typeset
// [typeset.Run]: https://pkg.go.dev/github.com/foliokit/folio/pkg/typeset#Run
// [typeset.Introspector]: https://pkg.go.dev/github.com/foliokit/folio/pkg/typeset#Introspector
// [layout]: https://pkg.go.dev/github.com/foliokit/folio/pkg/layout
// [manifest]: https://pkg.go.dev/github.com/foliokit/folio/pkg/manifest
// [pipeline]: https://pkg.go.dev/github.com/foliokit/folio/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/foliokit/folio/pkg/cache
// [session]: https://pkg.go.dev/github.com/foliokit/folio/pkg/session
// [observability]: https://pkg.go.dev/github.com/foliokit/folio/pkg/observability
// [errors]: https://pkg.go.dev/github.com/foliokit/folio/pkg/errors
// [errors.ErrCode]: https://pkg.go.dev/github.com/foliokit/folio/pkg/errors#ErrCode
// [buildinfo]: https://pkg.go.dev/github.com/foliokit/folio/pkg/buildinfo
// [render/framedot]: https://pkg.go.dev/github.com/foliokit/folio/pkg/render/framedot
// [framedot.ToDOT]: https://pkg.go.dev/github.com/foliokit/folio/pkg/render/framedot#ToDOT
// [framedot.RenderSVG]: https://pkg.go.dev/github.com/foliokit/folio/pkg/render/framedot#RenderSVG
package pkg
