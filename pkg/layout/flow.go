package layout

import (
	"fmt"
	"strings"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/geom"
)

// flow accumulates pages while content streams through it. All content
// lands in an inner frame covering the area inside the margins; closing a
// page wraps that frame in a group offset by the margin, so positions
// inside the flow stay margin-relative until introspection maps them to
// page coordinates.
type flow struct {
	pageSize geom.Size
	margin   float64
	textSize float64
	leading  float64

	pages  []*doc.Frame
	inner  *doc.Frame
	cursor float64
}

func newFlow(styles doc.Styles) *flow {
	defaults := DefaultStyles()
	f := &flow{
		pageSize: geom.Size{
			W: styles.Float(StylePageWidth, defaults.Float(StylePageWidth, 420)),
			H: styles.Float(StylePageHeight, defaults.Float(StylePageHeight, 595)),
		},
		margin:   styles.Float(StylePageMargin, defaults.Float(StylePageMargin, 36)),
		textSize: styles.Float(StyleTextSize, defaults.Float(StyleTextSize, 10)),
		leading:  styles.Float(StyleLeading, defaults.Float(StyleLeading, 1.4)),
	}
	f.openPage()
	return f
}

func (f *flow) contentWidth() float64 {
	return f.pageSize.W - 2*f.margin
}

func (f *flow) contentHeight() float64 {
	return f.pageSize.H - 2*f.margin
}

func (f *flow) openPage() {
	f.inner = doc.NewFrame(geom.Size{W: f.contentWidth(), H: f.contentHeight()})
	f.cursor = 0
}

// closePage wraps the inner frame into the page and stamps the folio
// number into the bottom margin.
func (f *flow) closePage() {
	page := doc.NewFrame(f.pageSize)
	page.Push(geom.Pt(f.margin, f.margin), doc.Group(f.inner))

	number := fmt.Sprintf("%d", len(f.pages)+1)
	page.Push(
		geom.Pt((f.pageSize.W-textWidth(number, f.textSize))/2, f.pageSize.H-f.margin+f.textSize*0.6),
		&doc.TextItem{Text: number, Size: f.textSize},
	)

	f.pages = append(f.pages, page)
	f.inner = nil
}

// ensure guarantees h points of vertical space, breaking the page if the
// current one cannot fit it.
func (f *flow) ensure(h float64) {
	if f.cursor+h > f.contentHeight() && f.cursor > 0 {
		f.breakPage()
	}
}

func (f *flow) breakPage() {
	f.closePage()
	f.openPage()
}

// line places a single text line at the cursor and advances it.
// Returns the line's position in the inner frame.
func (f *flow) line(text string, size float64) geom.Point {
	h := size * f.leading
	f.ensure(h)
	pos := geom.Pt(0, f.cursor)
	f.inner.Push(pos, &doc.TextItem{Text: text, Size: size})
	f.cursor += h
	return pos
}

// paragraph wraps text to the content width and places the lines,
// followed by a half-line of spacing.
func (f *flow) paragraph(text string) {
	for _, l := range wrapText(text, f.textSize, f.contentWidth()) {
		f.line(l, f.textSize)
	}
	f.cursor += f.textSize * 0.5
}

// outlineEntry places one contents line with dot leaders up to the page
// number.
func (f *flow) outlineEntry(text string, page int) {
	number := fmt.Sprintf("%d", page)
	total := int(f.contentWidth() / (f.textSize * advanceRatio))
	dots := total - len([]rune(text)) - len(number) - 2
	if dots < 2 {
		dots = 2
	}
	f.line(text+" "+strings.Repeat(".", dots)+" "+number, f.textSize)
}

// underline strokes below a placed line of the given width.
func (f *flow) underline(pos geom.Point, width, size float64) {
	f.inner.Push(geom.Pt(pos.X, pos.Y+size*1.1), &doc.RuleItem{Length: width, Thickness: 0.8})
}

// tag marks content identity at a position already placed this page.
func (f *flow) tag(pos geom.Point, id doc.StableID, content *doc.Content) {
	f.inner.Push(pos, &doc.TagItem{ID: id, Content: content})
}

// tagAt marks content identity at an absolute offset from the top of the
// current page's content area, independent of the cursor.
func (f *flow) tagAt(y float64, id doc.StableID, content *doc.Content) {
	f.inner.Push(geom.Pt(0, y), &doc.TagItem{ID: id, Content: content})
}

// finish closes the open page and returns the document.
func (f *flow) finish() *doc.Document {
	f.closePage()
	return &doc.Document{Pages: f.pages}
}
