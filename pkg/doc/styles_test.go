package doc

import (
	"encoding/json"
	"testing"
)

func TestStylesWith(t *testing.T) {
	base := NewStyles().With("page.width", 595.0)
	derived := base.With("page.width", 500.0).With("page.margin", 72.0)

	if got := base.Float("page.width", 0); got != 595 {
		t.Errorf("base page.width = %v, With should not mutate the receiver", got)
	}
	if got := derived.Float("page.width", 0); got != 500 {
		t.Errorf("derived page.width = %v, want the layered value", got)
	}
	if got := derived.Float("page.margin", 0); got != 72 {
		t.Errorf("derived page.margin = %v", got)
	}
}

func TestStylesAccessors(t *testing.T) {
	s := NewStyles().
		With("page.width", 500).
		With("outline.depth", int64(2)).
		With("font.family", "serif")

	if got := s.Float("page.width", 0); got != 500 {
		t.Errorf("Float() = %v, want int promoted to 500", got)
	}
	if got := s.Int("outline.depth", 0); got != 2 {
		t.Errorf("Int() = %d", got)
	}
	if got := s.Str("font.family", "sans"); got != "serif" {
		t.Errorf("Str() = %q", got)
	}

	// Defaults for unset keys
	if got := s.Float("line.height", 14); got != 14 {
		t.Errorf("Float() default = %v, want 14", got)
	}
	if got := s.Int("columns", 1); got != 1 {
		t.Errorf("Int() default = %d, want 1", got)
	}
	if got := s.Str("unset", "fallback"); got != "fallback" {
		t.Errorf("Str() default = %q", got)
	}

	// Type mismatches fall back too
	if got := s.Float("font.family", 9); got != 9 {
		t.Errorf("Float() on string value = %v, want default", got)
	}
}

func TestStylesGet(t *testing.T) {
	s := NewStyles().With("k", true)

	if v, ok := s.Get("k"); !ok || v != true {
		t.Errorf("Get(k) = %v, %v", v, ok)
	}
	if _, ok := s.Get("absent"); ok {
		t.Error("Get(absent) should report false")
	}
	if _, ok := NewStyles().Get("k"); ok {
		t.Error("empty chain should have no values")
	}
}

func TestStylesFingerprint(t *testing.T) {
	a := NewStyles().With("page.width", 500.0).With("page.margin", 72.0)
	b := NewStyles().With("page.margin", 72.0).With("page.width", 500.0)

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("insertion order should not affect the fingerprint")
	}

	c := a.With("page.margin", 80.0)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different values should fingerprint differently")
	}
}

func TestStylesJSON(t *testing.T) {
	empty, err := json.Marshal(NewStyles())
	if err != nil {
		t.Fatal(err)
	}
	if string(empty) != "{}" {
		t.Errorf("empty styles = %s, want {}", empty)
	}

	orig := NewStyles().With("page.width", 500.0).With("font.family", "serif")
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}

	var restored Styles
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatal(err)
	}
	if restored.Float("page.width", 0) != 500 || restored.Str("font.family", "") != "serif" {
		t.Errorf("round trip lost values: %s", data)
	}
}
