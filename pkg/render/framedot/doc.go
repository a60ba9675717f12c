// Package framedot renders typeset documents as Graphviz diagrams of
// their frame trees.
//
// # Overview
//
// A typeset document is a tree: pages contain frames, frames contain
// placed items, groups nest further frames. This package produces a DOT
// diagram of that tree for debugging layout output, with one cluster per
// page and one node per item. Tags, the invisible anchors used by
// introspection, are drawn dashed so they stand out from visual items.
//
// # Usage
//
// Convert a document to DOT format, then render to SVG:
//
//	dot := framedot.ToDOT(d, framedot.Options{Detailed: false})
//	svg, err := framedot.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include item positions and sizes.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) so parent
// frames sit above the items they contain.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package framedot
