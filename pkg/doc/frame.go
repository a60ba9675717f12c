package doc

import "github.com/foliokit/folio/pkg/geom"

// Frame is the geometric output of laying out content: a sized canvas of
// positioned items, possibly nesting further frames.
type Frame struct {
	Size  geom.Size
	Items []Placed
}

// NewFrame creates an empty frame of the given size.
func NewFrame(size geom.Size) *Frame {
	return &Frame{Size: size}
}

// Push appends an item at a position in the frame's own coordinates.
func (f *Frame) Push(pos geom.Point, item Item) {
	f.Items = append(f.Items, Placed{Pos: pos, Item: item})
}

// Placed is one item of a frame together with its offset from the frame
// origin.
type Placed struct {
	Pos  geom.Point
	Item Item
}

// Item is one kind of frame element. Introspection cares about groups and
// tags; every other kind is visual output it walks past.
type Item interface {
	// Kind returns the serialization tag of the item.
	Kind() string
}

// GroupItem nests a sub-frame. The group's transform composes with the
// ancestors' transforms when mapping positions inside it to page
// coordinates.
type GroupItem struct {
	Frame     *Frame
	Transform geom.Transform
	Clips     bool
}

// Kind returns "group".
func (g *GroupItem) Kind() string { return "group" }

// Group wraps a frame in an untransformed group item.
func Group(frame *Frame) *GroupItem {
	return &GroupItem{Frame: frame, Transform: geom.Identity()}
}

// TextItem is a run of shaped text.
type TextItem struct {
	Text string
	Size float64
}

// Kind returns "text".
func (t *TextItem) Kind() string { return "text" }

// RuleItem is a horizontal stroke.
type RuleItem struct {
	Length    float64
	Thickness float64
}

// Kind returns "rule".
func (r *RuleItem) Kind() string { return "rule" }

// TagItem marks where an identity-tagged piece of content sits in the
// frame tree. It has no visual extent; it exists so introspection can
// find the content and resolve its location.
type TagItem struct {
	ID      StableID
	Content *Content
}

// Kind returns "tag".
func (t *TagItem) Kind() string { return "tag" }

// Document is a finished layout result: the pages in order.
type Document struct {
	Title string
	Pages []*Frame
}
