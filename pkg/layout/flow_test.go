package layout

import (
	"strconv"
	"strings"
	"testing"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/geom"
)

// testStyles shrinks the page so pagination kicks in after a few lines:
// a 180x80 content area with 10pt text on single leading.
func testStyles() doc.Styles {
	return doc.NewStyles().
		With(StylePageWidth, 200.0).
		With(StylePageHeight, 100.0).
		With(StylePageMargin, 10.0).
		With(StyleTextSize, 10.0).
		With(StyleLeading, 1.0)
}

func TestNewFlowReadsStyles(t *testing.T) {
	f := newFlow(testStyles())
	if f.pageSize != (geom.Size{W: 200, H: 100}) {
		t.Errorf("pageSize = %v, want {200 100}", f.pageSize)
	}
	if f.margin != 10 || f.textSize != 10 || f.leading != 1 {
		t.Errorf("margin/textSize/leading = %v/%v/%v, want 10/10/1", f.margin, f.textSize, f.leading)
	}
	if f.contentWidth() != 180 || f.contentHeight() != 80 {
		t.Errorf("content area = %vx%v, want 180x80", f.contentWidth(), f.contentHeight())
	}
}

func TestNewFlowFallsBackToDefaults(t *testing.T) {
	f := newFlow(doc.NewStyles())
	if f.pageSize != (geom.Size{W: 420, H: 595}) {
		t.Errorf("pageSize = %v, want the default {420 595}", f.pageSize)
	}
	if f.margin != 36 {
		t.Errorf("margin = %v, want 36", f.margin)
	}
}

func TestFlowLineAdvancesCursor(t *testing.T) {
	f := newFlow(testStyles())
	p1 := f.line("one", 10)
	p2 := f.line("two", 10)
	if p1 != geom.Pt(0, 0) {
		t.Errorf("first line at %v, want (0, 0)", p1)
	}
	if p2 != geom.Pt(0, 10) {
		t.Errorf("second line at %v, want (0, 10)", p2)
	}
	if f.cursor != 20 {
		t.Errorf("cursor = %v after two lines, want 20", f.cursor)
	}
}

func TestFlowParagraph(t *testing.T) {
	f := newFlow(testStyles())
	f.paragraph("hello")
	if got := len(f.inner.Items); got != 1 {
		t.Fatalf("paragraph placed %d items, want 1", got)
	}
	// One line plus half a line of spacing.
	if f.cursor != 15 {
		t.Errorf("cursor = %v, want 15", f.cursor)
	}
}

func TestFlowParagraphWraps(t *testing.T) {
	f := newFlow(testStyles())
	// Ten words of four runes wrap onto two lines at 36 runes per line.
	f.paragraph(strings.TrimSpace(strings.Repeat("word ", 10)))
	if got := len(f.inner.Items); got != 2 {
		t.Fatalf("paragraph placed %d lines, want 2", got)
	}
	if f.cursor != 25 {
		t.Errorf("cursor = %v, want 25", f.cursor)
	}
}

func TestFlowBreaksWhenPageFull(t *testing.T) {
	f := newFlow(testStyles())
	var last geom.Point
	for i := 0; i < 9; i++ {
		last = f.line("x", 10)
	}
	// Eight lines fill the 80pt content area; the ninth opens page two.
	if len(f.pages) != 1 {
		t.Fatalf("closed %d pages after nine lines, want 1", len(f.pages))
	}
	if last != geom.Pt(0, 0) {
		t.Errorf("ninth line at %v, want (0, 0) on the fresh page", last)
	}
	d := f.finish()
	if len(d.Pages) != 2 {
		t.Errorf("document has %d pages, want 2", len(d.Pages))
	}
}

func TestFlowOversizedLineStaysOnFreshPage(t *testing.T) {
	f := newFlow(testStyles())
	// Taller than the content area, but the page is empty, so there is
	// no better page to move to.
	f.line("tall", 200)
	if len(f.pages) != 0 {
		t.Fatalf("closed %d pages for an oversized line on an empty page, want 0", len(f.pages))
	}
	f.line("next", 10)
	if len(f.pages) != 1 {
		t.Errorf("closed %d pages after the follow-up line, want 1", len(f.pages))
	}
}

func TestFlowClosePageStructure(t *testing.T) {
	f := newFlow(testStyles())
	f.line("body", 10)
	d := f.finish()

	if len(d.Pages) != 1 {
		t.Fatalf("document has %d pages, want 1", len(d.Pages))
	}
	page := d.Pages[0]
	if page.Size != (geom.Size{W: 200, H: 100}) {
		t.Errorf("page size = %v, want {200 100}", page.Size)
	}
	if len(page.Items) != 2 {
		t.Fatalf("page holds %d items, want the content group and the folio stamp", len(page.Items))
	}

	group, ok := page.Items[0].Item.(*doc.GroupItem)
	if !ok {
		t.Fatalf("first page item is %T, want *doc.GroupItem", page.Items[0].Item)
	}
	if page.Items[0].Pos != geom.Pt(10, 10) {
		t.Errorf("content group at %v, want the margin offset (10, 10)", page.Items[0].Pos)
	}
	if group.Frame.Size != (geom.Size{W: 180, H: 80}) {
		t.Errorf("inner frame size = %v, want {180 80}", group.Frame.Size)
	}

	folio, ok := page.Items[1].Item.(*doc.TextItem)
	if !ok {
		t.Fatalf("second page item is %T, want *doc.TextItem", page.Items[1].Item)
	}
	if folio.Text != "1" {
		t.Errorf("folio stamp = %q, want %q", folio.Text, "1")
	}
	if got, want := page.Items[1].Pos, geom.Pt(97.5, 96); got != want {
		t.Errorf("folio stamp at %v, want %v", got, want)
	}
}

func TestFlowPageNumbersSequential(t *testing.T) {
	f := newFlow(testStyles())
	f.line("a", 10)
	f.breakPage()
	f.line("b", 10)
	d := f.finish()

	if len(d.Pages) != 2 {
		t.Fatalf("document has %d pages, want 2", len(d.Pages))
	}
	for i, page := range d.Pages {
		folio := page.Items[1].Item.(*doc.TextItem)
		if want := strconv.Itoa(i + 1); folio.Text != want {
			t.Errorf("page %d folio stamp = %q, want %q", i+1, folio.Text, want)
		}
	}
}

func TestFlowOutlineEntry(t *testing.T) {
	f := newFlow(testStyles())

	// 36 runes per line leaves 28 dots for a five-rune title.
	f.outlineEntry("Intro", 3)
	got := f.inner.Items[0].Item.(*doc.TextItem).Text
	if want := "Intro " + strings.Repeat(".", 28) + " 3"; got != want {
		t.Errorf("outline entry = %q, want %q", got, want)
	}

	// Titles wider than the line keep a minimal leader.
	f.outlineEntry(strings.Repeat("x", 40), 12)
	got = f.inner.Items[1].Item.(*doc.TextItem).Text
	if want := strings.Repeat("x", 40) + " .. 12"; got != want {
		t.Errorf("clamped outline entry = %q, want %q", got, want)
	}
}

func TestFlowTagAndUnderline(t *testing.T) {
	f := newFlow(testStyles())
	content := doc.NewContent("heading")
	pos := f.line("Heading", 12)
	f.tag(pos, doc.StableID{}, content)
	f.underline(pos, textWidth("Heading", 12), 12)

	items := f.inner.Items
	if len(items) != 3 {
		t.Fatalf("flow holds %d items, want text, tag, and rule", len(items))
	}
	if _, ok := items[1].Item.(*doc.TagItem); !ok || items[1].Pos != pos {
		t.Errorf("tag is %T at %v, want *doc.TagItem at %v", items[1].Item, items[1].Pos, pos)
	}
	rule, ok := items[2].Item.(*doc.RuleItem)
	if !ok {
		t.Fatalf("third item is %T, want *doc.RuleItem", items[2].Item)
	}
	if rule.Length != 42 || rule.Thickness != 0.8 {
		t.Errorf("rule = %v x %v, want 42 x 0.8", rule.Length, rule.Thickness)
	}
	if want := geom.Pt(pos.X, pos.Y+12*1.1); items[2].Pos != want {
		t.Errorf("rule at %v, want %v", items[2].Pos, want)
	}
}

func TestFlowTagAt(t *testing.T) {
	f := newFlow(testStyles())
	f.line("body", 10)
	f.tagAt(33, doc.StableID{}, doc.NewContent("marker"))

	placed := f.inner.Items[1]
	if _, ok := placed.Item.(*doc.TagItem); !ok {
		t.Fatalf("second item is %T, want *doc.TagItem", placed.Item)
	}
	if placed.Pos != geom.Pt(0, 33) {
		t.Errorf("tag at %v, want (0, 33) regardless of the cursor", placed.Pos)
	}
}
