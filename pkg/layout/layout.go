// Package layout implements the reference flow engine: it paginates a
// content tree into frames, top to bottom, breaking onto new pages as
// space runs out.
//
// The engine exists to exercise the relayout loop with real content.
// Headings are tagged with reproducible identities; references and the
// outline query the previous pass's placed headings and render their page
// numbers. Both sides of the fixpoint therefore meet here: the engine
// produces the facts (where things landed) and consumes them (what to
// print for a reference).
//
// Measurement is deliberately font-free. Text advances half its size per
// rune, which keeps layout deterministic on every platform and good
// enough for pagination.
package layout

import (
	"fmt"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/typeset"
)

// Element names understood by the engine.
const (
	ElemDocument  = "document"
	ElemHeading   = "heading"
	ElemParagraph = "paragraph"
	ElemPageBreak = "pagebreak"
	ElemRef       = "ref"
	ElemOutline   = "outline"
	ElemDrift     = "drift"
)

// Style keys read by the engine. All dimensions are typographic points.
const (
	StylePageWidth  = "page.width"
	StylePageHeight = "page.height"
	StylePageMargin = "page.margin"
	StyleTextSize   = "text.size"
	StyleLeading    = "text.leading"
)

// Version tags this engine in memoization keys. Bump on any change that
// alters produced frames for equal input.
const Version = "flow/1"

// DefaultStyles returns the engine's base configuration: an A5-ish page
// with uniform margins.
func DefaultStyles() doc.Styles {
	return doc.NewStyles().
		With(StylePageWidth, 420.0).
		With(StylePageHeight, 595.0).
		With(StylePageMargin, 36.0).
		With(StyleTextSize, 10.0).
		With(StyleLeading, 1.4)
}

// Library bundles the engine as a typeset library.
func Library() *typeset.Library {
	return &typeset.Library{Layout: Document, Version: Version}
}

// headingScales maps heading level to a text-size multiplier. Levels
// beyond the table use the last entry.
var headingScales = []float64{1.8, 1.4, 1.15}

// Document lays out a content tree into pages.
//
// The root must be a "document" element; its children are laid out in
// order. Unknown elements fail the pass, which aborts the typeset run.
func Document(ctx *typeset.Context, content *doc.Content, styles doc.Styles) (*doc.Document, error) {
	if content.Elem() != ElemDocument {
		return nil, errors.New(errors.ErrCodeLayout, "root element must be %q, got %q", ElemDocument, content.Elem())
	}

	f := newFlow(styles)
	for _, child := range content.Children() {
		if err := layoutBlock(ctx, f, child); err != nil {
			return nil, err
		}
	}

	document := f.finish()
	document.Title = content.Str("title")
	return document, nil
}

// layoutBlock dispatches one block-level element into the flow.
func layoutBlock(ctx *typeset.Context, f *flow, block *doc.Content) error {
	switch block.Elem() {
	case ElemHeading:
		return layoutHeading(ctx, f, block)
	case ElemParagraph:
		f.paragraph(block.Str("text"))
		return nil
	case ElemPageBreak:
		f.breakPage()
		return nil
	case ElemRef:
		return layoutRef(ctx, f, block)
	case ElemOutline:
		return layoutOutline(ctx, f, block)
	case ElemDrift:
		return layoutDrift(ctx, f, block)
	default:
		return errors.New(errors.ErrCodeLayout, "unknown element %q", block.Elem())
	}
}

// layoutHeading places a heading line and tags it so queries can find it.
func layoutHeading(ctx *typeset.Context, f *flow, block *doc.Content) error {
	level := block.Int("level")
	if level < 1 {
		level = 1
	}
	scale := headingScales[min(level, len(headingScales))-1]
	size := f.textSize * scale
	text := block.Str("text")

	id := ctx.Identify(identityKey(block))
	pos := f.line(text, size)
	f.tag(pos, id, block)
	f.underline(pos, textWidth(text, size), size)
	return nil
}

// layoutRef renders a cross-reference to a labeled node, using the page
// number the target had in the previous pass. An unresolved target prints
// a placeholder; the next pass fills it in.
func layoutRef(ctx *typeset.Context, f *flow, block *doc.Content) error {
	target := block.Str("target")
	if target == "" {
		return errors.New(errors.ErrCodeLayout, "ref without target")
	}

	text := fmt.Sprintf("see %q (p. ?)", target)
	if matches := ctx.Locate(doc.SelectLabel(target)); len(matches) > 0 {
		m := matches[0]
		if loc, ok := m.Content.Location(); ok {
			text = fmt.Sprintf("see %q (p. %d)", m.Content.Str("text"), loc.Page)
		}
	}
	f.paragraph(text)
	return nil
}

// layoutOutline renders one entry per heading placed in the previous
// pass, with its page number.
func layoutOutline(ctx *typeset.Context, f *flow, block *doc.Content) error {
	f.line("Contents", f.textSize*headingScales[1])
	for _, m := range ctx.Locate(doc.SelectElement(ElemHeading)) {
		loc, ok := m.Content.Location()
		if !ok {
			continue
		}
		f.outlineEntry(m.Content.Str("text"), loc.Page)
	}
	return nil
}

// layoutDrift places a tagged marker that moves a fixed step down from
// wherever the previous pass put it. Its location never repeats, so a
// document containing a drift element never stabilizes. It exists to
// exercise the pass cap.
func layoutDrift(ctx *typeset.Context, f *flow, block *doc.Content) error {
	label := block.Label()
	if label == "" {
		return errors.New(errors.ErrCodeLayout, "drift without label")
	}

	offset := 0.0
	if matches := ctx.Locate(doc.SelectLabel(label)); len(matches) > 0 {
		if loc, ok := matches[0].Content.Location(); ok {
			offset = loc.Pos.Y - f.margin + 8
		}
	}

	id := ctx.Identify(identityKey(block))
	f.tagAt(offset, id, block)
	return nil
}

// identityKey derives the identify key for a content node. Nodes with a
// real span key on it, so identity survives edits elsewhere in the
// source; detached nodes fall back to their element, label, and text.
func identityKey(block *doc.Content) any {
	if span := block.Span(); !span.IsZero() && !span.IsDetached() {
		return span.Raw()
	}
	return []any{block.Elem(), block.Label(), block.Str("text")}
}
