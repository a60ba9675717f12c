// Package render provides visualization rendering for typeset documents.
//
// # Overview
//
// This package groups the renderers that turn paginated documents into
// visual debugging output. It provides:
//
//   - Frame-tree diagrams (in [framedot] subpackage)
//
// # Frame-Tree Diagrams
//
// The [framedot] subpackage renders a document's frame trees as Graphviz
// diagrams. Each frame becomes a node labeled with its size, each placed
// item an edge annotated with its offset, and introspection tags appear
// as dashed nodes. This is the renderer behind the CLI's SVG export and
// the preview server's /svg endpoint.
//
//	dot := framedot.ToDOT(document, framedot.Options{Detailed: true})
//	svg, err := framedot.RenderSVG(dot)
//
// DOT output is deterministic for a given document, so it diffs cleanly
// between typeset runs.
//
// [framedot]: https://pkg.go.dev/github.com/foliokit/folio/pkg/render/framedot
package render
