package framedot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/foliokit/folio/pkg/doc"
)

// Options configures frame diagram rendering.
type Options struct {
	// Detailed includes item positions and frame sizes in node labels.
	// When false, only the item kind and a content snippet are shown.
	Detailed bool
}

// ToDOT converts a document's frame tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Each page becomes a cluster; items become nodes connected to their
// containing frame. Tag items are rendered with dashed outlines and grey
// fill to distinguish them from visual items.
func ToDOT(d *doc.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph frames {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for i, page := range d.Pages {
		n := i + 1
		id := strconv.Itoa(n)
		fmt.Fprintf(&buf, "\n  subgraph cluster_page%d {\n", n)
		fmt.Fprintf(&buf, "    label=\"page %d\";\n", n)
		buf.WriteString("    style=rounded;\n")
		fmt.Fprintf(&buf, "    %q [label=%q];\n", id, fmtFrameLabel(page, opts.Detailed))
		writeFrame(&buf, page, id, opts)
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeFrame emits one node per item plus an edge from the containing
// frame, recursing into groups. Item ids are the index path from the
// page root, e.g. "1.0.2".
func writeFrame(buf *bytes.Buffer, frame *doc.Frame, parent string, opts Options) {
	for i, placed := range frame.Items {
		id := fmt.Sprintf("%s.%d", parent, i)
		attrs := fmtAttrs(placed.Item, fmtItemLabel(placed, opts.Detailed))
		fmt.Fprintf(buf, "    %q [%s];\n", id, strings.Join(attrs, ", "))
		fmt.Fprintf(buf, "    %q -> %q;\n", parent, id)

		if group, ok := placed.Item.(*doc.GroupItem); ok {
			writeFrame(buf, group.Frame, id, opts)
		}
	}
}

func fmtFrameLabel(frame *doc.Frame, detailed bool) string {
	if !detailed {
		return "frame"
	}
	return fmt.Sprintf("frame %gx%g", frame.Size.W, frame.Size.H)
}

func fmtItemLabel(p doc.Placed, detailed bool) string {
	var label string
	switch item := p.Item.(type) {
	case *doc.GroupItem:
		label = fmt.Sprintf("group %gx%g", item.Frame.Size.W, item.Frame.Size.H)
	case *doc.TextItem:
		label = fmt.Sprintf("text %q", snippet(item.Text, 24))
	case *doc.RuleItem:
		label = fmt.Sprintf("rule %g", item.Length)
	case *doc.TagItem:
		label = fmt.Sprintf("tag %s", item.ID)
	default:
		label = p.Item.Kind()
	}

	if detailed {
		label += fmt.Sprintf("\n@ (%.1f, %.1f)", p.Pos.X, p.Pos.Y)
	}
	return label
}

func fmtAttrs(item doc.Item, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if _, ok := item.(*doc.TagItem); ok {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// snippet shortens s for use in a node label.
func snippet(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root <svg> tag so the viewBox starts at
// the origin and explicit width/height attributes are present.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
