package typeset

import (
	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/fingerprint"
)

// World is the environment a typeset run executes in. It stays valid and
// unchanged for the whole run; every pass reads the same styles and the
// same library.
//
// The interface is deliberately narrow: layout code sees exactly these
// capabilities and nothing else of the host.
type World interface {
	// Styles returns the document-level style configuration.
	Styles() doc.Styles

	// Library returns the layout routines available to this world.
	Library() *Library

	// Fingerprint identifies the world's full configuration. Two worlds
	// with equal fingerprints typeset equal content identically, so the
	// digest may serve as a memoization key component.
	Fingerprint() fingerprint.Digest
}

// LayoutFunc turns evaluated content into a paginated document. It may
// call ctx.Identify and ctx.Locate from any of its sub-computations, and
// it fails by returning an error, which aborts the typeset run.
type LayoutFunc func(ctx *Context, content *doc.Content, styles doc.Styles) (*doc.Document, error)

// Library bundles the layout entry point a world offers.
type Library struct {
	// Layout is the root layout routine.
	Layout LayoutFunc

	// Version distinguishes incompatible layout implementations in
	// memoization keys.
	Version string
}

// StaticWorld is a World backed by plain values. It serves programmatic
// use and tests; embedding hosts provide their own implementation when
// styles or libraries come from configuration.
type StaticWorld struct {
	styles  doc.Styles
	library *Library
}

// NewStaticWorld creates a world from a style chain and a library.
func NewStaticWorld(styles doc.Styles, library *Library) *StaticWorld {
	return &StaticWorld{styles: styles, library: library}
}

// Styles returns the configured style chain.
func (w *StaticWorld) Styles() doc.Styles {
	return w.styles
}

// Library returns the configured library.
func (w *StaticWorld) Library() *Library {
	return w.library
}

// Fingerprint digests the styles and the library version.
func (w *StaticWorld) Fingerprint() fingerprint.Digest {
	h := fingerprint.NewHasher()
	h.WriteDigest(w.styles.Fingerprint())
	h.WriteString(w.library.Version)
	return h.Sum()
}
