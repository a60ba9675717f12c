// Package manifest loads document manifests: TOML files describing a
// content tree to typeset.
//
// A manifest has a [document] table with the title and optional style
// overrides, followed by [[block]] entries in reading order:
//
//	[document]
//	title = "Typesetting Notes"
//
//	[document.styles]
//	"page.width" = 420.0
//
//	[[block]]
//	kind = "heading"
//	level = 1
//	text = "Introduction"
//	label = "intro"
//
//	[[block]]
//	kind = "ref"
//	target = "intro"
//
// Loading builds the content tree and numbers every node's span in tree
// order with gaps, so that ancestors always order before descendants and
// an edit renumbers only its neighborhood.
package manifest

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/fingerprint"
	"github.com/foliokit/folio/pkg/layout"
	"github.com/foliokit/folio/pkg/syntax"
)

// spanGap is the numbering distance between adjacent nodes. The slack
// lets a future incremental loader renumber an edited subtree without
// touching its siblings.
const spanGap = 64

// Manifest mirrors the TOML structure of a document manifest.
type Manifest struct {
	Document Meta    `toml:"document"`
	Blocks   []Block `toml:"block"`
}

// Meta is the [document] table.
type Meta struct {
	Title  string         `toml:"title"`
	Styles map[string]any `toml:"styles"`
}

// Block is one [[block]] entry.
type Block struct {
	Kind   string `toml:"kind"`
	Level  int    `toml:"level"`
	Text   string `toml:"text"`
	Label  string `toml:"label"`
	Target string `toml:"target"`
}

// Loaded is a manifest resolved into typesetting inputs.
type Loaded struct {
	// Content is the fully numbered content tree, rooted at a
	// "document" element.
	Content *doc.Content

	// Styles is the engine's default configuration with the manifest's
	// overrides applied.
	Styles doc.Styles

	// Title is the document title.
	Title string

	// Blocks is the number of block entries loaded.
	Blocks int

	// Fingerprint digests the raw manifest bytes; it keys cached work
	// derived from this manifest.
	Fingerprint fingerprint.Digest
}

// LoadFile reads and loads a manifest file. The file becomes source 1
// for span numbering.
func LoadFile(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return Load(data, 1)
}

// Load parses manifest bytes into typesetting inputs, numbering spans
// against the given source id.
func Load(data []byte, source syntax.SourceID) (*Loaded, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}

	styles := layout.DefaultStyles()
	for key, value := range m.Document.Styles {
		if err := errors.ValidateStyleKey(key); err != nil {
			return nil, err
		}
		styles = styles.With(key, value)
	}

	root := doc.NewContent(layout.ElemDocument)
	if m.Document.Title != "" {
		root.SetField("title", m.Document.Title)
	}

	for i, block := range m.Blocks {
		node, err := block.content()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "block %d", i+1)
		}
		root.AppendChild(node)
	}

	numberTree(root, source)

	return &Loaded{
		Content:     root,
		Styles:      styles,
		Title:       m.Document.Title,
		Blocks:      len(m.Blocks),
		Fingerprint: fingerprint.OfBytes(data),
	}, nil
}

// content converts one block entry into a content node.
func (b Block) content() (*doc.Content, error) {
	if b.Kind == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "block without kind")
	}
	if err := errors.ValidateElementName(b.Kind); err != nil {
		return nil, err
	}

	node := doc.NewContent(b.Kind)
	if b.Level != 0 {
		node.SetField("level", b.Level)
	}
	if b.Text != "" {
		node.SetField("text", b.Text)
	}
	if b.Label != "" {
		if err := errors.ValidateLabel(b.Label); err != nil {
			return nil, err
		}
		node.SetField("label", b.Label)
	}
	if b.Target != "" {
		if err := errors.ValidateLabel(b.Target); err != nil {
			return nil, err
		}
		node.SetField("target", b.Target)
	}
	return node, nil
}

// numberTree assigns spans in pre-order: every ancestor numbers before
// its descendants, and a whole left subtree numbers before its right
// siblings.
func numberTree(root *doc.Content, source syntax.SourceID) {
	next := syntax.MinNumber
	var walk func(c *doc.Content)
	walk = func(c *doc.Content) {
		c.SetSpan(syntax.NewSpan(source, next))
		next += spanGap
		for _, child := range c.Children() {
			walk(child)
		}
	}
	walk(root)
}
