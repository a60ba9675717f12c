package doc

import (
	"encoding/json"

	"github.com/foliokit/folio/pkg/fingerprint"
	"github.com/foliokit/folio/pkg/syntax"
)

// Content is one node of the evaluated input tree: an element name, a bag
// of data fields, child content, and the span of the syntax node it came
// from.
//
// Layout and introspection treat content as opaque: they read fields,
// clone snapshots, and attach metadata under reserved keys, but never
// interpret element semantics. Field values must be JSON-marshalable so
// content can be fingerprinted and serialized.
type Content struct {
	elem     string
	span     syntax.Span
	fields   map[string]any
	children []*Content
}

// NewContent creates a content node for the given element.
func NewContent(elem string) *Content {
	return &Content{elem: elem}
}

// Elem returns the element name.
func (c *Content) Elem() string {
	return c.elem
}

// Span returns the provenance span of the underlying syntax node.
func (c *Content) Span() syntax.Span {
	return c.span
}

// SetSpan records the provenance span. Called by loaders during tree
// construction; content is treated as immutable afterwards.
func (c *Content) SetSpan(span syntax.Span) {
	c.span = span
}

// Field returns the raw value of a field.
func (c *Content) Field(name string) (any, bool) {
	v, ok := c.fields[name]
	return v, ok
}

// SetField stores a field value.
func (c *Content) SetField(name string, v any) {
	if c.fields == nil {
		c.fields = make(map[string]any)
	}
	c.fields[name] = v
}

// Str returns a string field, or "" if absent or not a string.
func (c *Content) Str(name string) string {
	s, _ := c.fields[name].(string)
	return s
}

// Int returns an integer field, tolerating the float64 that JSON
// round-trips produce. Returns 0 if absent.
func (c *Content) Int(name string) int {
	switch v := c.fields[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Float returns a numeric field as float64, or 0 if absent.
func (c *Content) Float(name string) float64 {
	switch v := c.fields[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Label returns the cross-referencing label of this node, if any.
func (c *Content) Label() string {
	return c.Str("label")
}

// AppendChild adds a child node.
func (c *Content) AppendChild(child *Content) {
	c.children = append(c.children, child)
}

// Children returns the child nodes. The returned slice is owned by c.
func (c *Content) Children() []*Content {
	return c.children
}

// Clone returns a deep copy. Mutating the copy's fields or children never
// affects the original, which is what lets the introspector snapshot
// placed content and attach metadata to it.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	out := &Content{elem: c.elem, span: c.span}
	if c.fields != nil {
		out.fields = make(map[string]any, len(c.fields))
		for k, v := range c.fields {
			out.fields[k] = v
		}
	}
	if c.children != nil {
		out.children = make([]*Content, len(c.children))
		for i, child := range c.children {
			out.children[i] = child.Clone()
		}
	}
	return out
}

// Fingerprint derives the content digest, covering element, span, fields,
// and children. Attached metadata participates, so two snapshots of the
// same node at different locations fingerprint differently.
func (c *Content) Fingerprint() fingerprint.Digest {
	data, _ := json.Marshal(c)
	return fingerprint.OfBytes(data)
}

// contentJSON is the serialized form of Content.
type contentJSON struct {
	Elem     string         `json:"elem"`
	Span     uint64         `json:"span,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
	Children []*Content     `json:"children,omitempty"`
}

// MarshalJSON encodes the content tree. Map keys serialize sorted, so the
// encoding is deterministic and safe to fingerprint.
func (c *Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(contentJSON{
		Elem:     c.elem,
		Span:     c.span.Raw(),
		Fields:   c.fields,
		Children: c.children,
	})
}

// UnmarshalJSON decodes the content tree.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw contentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.elem = raw.Elem
	c.span = syntax.FromRaw(raw.Span)
	c.fields = raw.Fields
	c.children = raw.Children
	return nil
}
