package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/foliokit/folio/pkg/geom"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalDocument converts a document to JSON bytes.
func MarshalDocument(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocumentTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument decodes JSON bytes into a document.
func UnmarshalDocument(data []byte) (*Document, error) {
	return readDocumentFrom(bytes.NewReader(data))
}

// WriteDocument writes a document as JSON to an io.Writer.
func WriteDocument(d *Document, w io.Writer) error {
	return writeDocumentTo(d, w)
}

// WriteDocumentFile writes a document to a JSON file with 0644 permissions.
func WriteDocumentFile(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDocumentTo(d, f)
}

// ReadDocument decodes a JSON document from an io.Reader.
func ReadDocument(r io.Reader) (*Document, error) {
	return readDocumentFrom(r)
}

// ReadDocumentFile reads a JSON file and returns the decoded document.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readDocumentFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

type documentJSON struct {
	Title string       `json:"title,omitempty"`
	Pages []*frameJSON `json:"pages"`
}

type frameJSON struct {
	Size  geom.Size  `json:"size"`
	Items []itemJSON `json:"items,omitempty"`
}

// itemJSON is the union of all item kinds, discriminated by Kind.
type itemJSON struct {
	Kind string     `json:"kind"`
	Pos  geom.Point `json:"pos"`

	// group
	Frame     *frameJSON      `json:"frame,omitempty"`
	Transform *geom.Transform `json:"transform,omitempty"`
	Clips     bool            `json:"clips,omitempty"`

	// text
	Text string  `json:"text,omitempty"`
	Size float64 `json:"size,omitempty"`

	// rule
	Length    float64 `json:"length,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`

	// tag
	ID      *StableID `json:"id,omitempty"`
	Content *Content  `json:"content,omitempty"`
}

func writeDocumentTo(d *Document, w io.Writer) error {
	out := documentJSON{Title: d.Title, Pages: make([]*frameJSON, len(d.Pages))}
	for i, page := range d.Pages {
		out.Pages[i] = frameToJSON(page)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readDocumentFrom(r io.Reader) (*Document, error) {
	var data documentJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	d := &Document{Title: data.Title, Pages: make([]*Frame, len(data.Pages))}
	for i, page := range data.Pages {
		frame, err := frameFromJSON(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		d.Pages[i] = frame
	}
	return d, nil
}

func frameToJSON(f *Frame) *frameJSON {
	out := &frameJSON{Size: f.Size, Items: make([]itemJSON, 0, len(f.Items))}
	for _, placed := range f.Items {
		item := itemJSON{Kind: placed.Item.Kind(), Pos: placed.Pos}
		switch it := placed.Item.(type) {
		case *GroupItem:
			item.Frame = frameToJSON(it.Frame)
			ts := it.Transform
			item.Transform = &ts
			item.Clips = it.Clips
		case *TextItem:
			item.Text = it.Text
			item.Size = it.Size
		case *RuleItem:
			item.Length = it.Length
			item.Thickness = it.Thickness
		case *TagItem:
			id := it.ID
			item.ID = &id
			item.Content = it.Content
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func frameFromJSON(f *frameJSON) (*Frame, error) {
	out := NewFrame(f.Size)
	for i, item := range f.Items {
		switch item.Kind {
		case "group":
			if item.Frame == nil {
				return nil, fmt.Errorf("item %d: group without frame", i)
			}
			inner, err := frameFromJSON(item.Frame)
			if err != nil {
				return nil, err
			}
			ts := geom.Identity()
			if item.Transform != nil {
				ts = *item.Transform
			}
			out.Push(item.Pos, &GroupItem{Frame: inner, Transform: ts, Clips: item.Clips})
		case "text":
			out.Push(item.Pos, &TextItem{Text: item.Text, Size: item.Size})
		case "rule":
			out.Push(item.Pos, &RuleItem{Length: item.Length, Thickness: item.Thickness})
		case "tag":
			if item.ID == nil || item.Content == nil {
				return nil, fmt.Errorf("item %d: tag without id or content", i)
			}
			out.Push(item.Pos, &TagItem{ID: *item.ID, Content: item.Content})
		default:
			return nil, fmt.Errorf("item %d: unknown kind %q", i, item.Kind)
		}
	}
	return out, nil
}
