package typeset

import (
	"testing"

	"github.com/foliokit/folio/pkg/doc"
)

func TestStaticWorld(t *testing.T) {
	lib := staticLibrary()
	world := NewStaticWorld(doc.NewStyles().With("page.width", 595.0), lib)

	if world.Library() != lib {
		t.Error("Library() is not the configured library")
	}
	if got := world.Styles().Float("page.width", 0); got != 595 {
		t.Errorf("Styles().Float(page.width) = %v, want 595", got)
	}
}

func TestStaticWorldFingerprint(t *testing.T) {
	styles := doc.NewStyles().With("page.width", 595.0)

	a := NewStaticWorld(styles, &Library{Version: "1"})
	b := NewStaticWorld(styles, &Library{Version: "1"})
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identically configured worlds digest differently")
	}

	c := NewStaticWorld(styles, &Library{Version: "2"})
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("library version change left the world digest unchanged")
	}

	d := NewStaticWorld(styles.With("page.width", 400.0), &Library{Version: "1"})
	if a.Fingerprint() == d.Fingerprint() {
		t.Error("style change left the world digest unchanged")
	}
}
