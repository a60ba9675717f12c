package fingerprint

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOfDeterministic(t *testing.T) {
	a := Of("heading", 1, map[string]any{"level": 1.0, "text": "Intro"})
	b := Of("heading", 1, map[string]any{"text": "Intro", "level": 1.0})

	if a != b {
		t.Error("equal inputs should fingerprint equally regardless of map order")
	}
}

func TestOfDistinguishes(t *testing.T) {
	cases := []struct {
		name string
		a, b []any
	}{
		{"different values", []any{"heading"}, []any{"paragraph"}},
		{"different order", []any{"a", "b"}, []any{"b", "a"}},
		{"different arity", []any{"a"}, []any{"a", ""}},
		{"number vs string", []any{1}, []any{"1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if Of(tc.a...) == Of(tc.b...) {
				t.Errorf("Of(%v) and Of(%v) should differ", tc.a, tc.b)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	var zero Digest
	if !zero.IsZero() {
		t.Error("zero value should be IsZero")
	}
	if Of("anything").IsZero() {
		t.Error("a computed digest should not be zero")
	}
}

func TestString(t *testing.T) {
	s := Of("x").String()
	if len(s) != Size*2 {
		t.Errorf("String() length = %d, want %d hex chars", len(s), Size*2)
	}
	if s != strings.ToLower(s) {
		t.Error("String() should be lowercase hex")
	}
}

func TestTextRoundTrip(t *testing.T) {
	d := Of("roundtrip", 42)

	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error: %v", err)
	}

	var restored Digest
	if err := restored.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if restored != d {
		t.Errorf("round trip changed digest: %v -> %v", d, restored)
	}
}

func TestUnmarshalTextRejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not hex", "zz" + strings.Repeat("00", Size-1)},
		{"too short", "abcd"},
		{"too long", strings.Repeat("ab", Size+1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Digest
			if err := d.UnmarshalText([]byte(tc.in)); err == nil {
				t.Errorf("UnmarshalText(%q) should fail", tc.in)
			}
		})
	}
}

func TestDigestEmbedsInJSON(t *testing.T) {
	type wrapper struct {
		ID Digest `json:"id"`
	}

	out, err := json.Marshal(wrapper{ID: Of("embedded")})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(out), `"id":"`) {
		t.Errorf("digest should serialize as a JSON string: %s", out)
	}

	var back wrapper
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if back.ID != Of("embedded") {
		t.Error("JSON round trip changed digest")
	}
}

func TestHasherOrderSensitive(t *testing.T) {
	first := NewHasher()
	first.WriteString("alpha")
	first.WriteString("beta")

	second := NewHasher()
	second.WriteString("beta")
	second.WriteString("alpha")

	if first.Sum() == second.Sum() {
		t.Error("write order should change the digest")
	}
}

func TestHasherLengthPrefix(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	first := NewHasher()
	first.WriteString("ab")
	first.WriteString("c")

	second := NewHasher()
	second.WriteString("a")
	second.WriteString("bc")

	if first.Sum() == second.Sum() {
		t.Error("adjacent strings should not run together")
	}
}

func TestHasherDeterministic(t *testing.T) {
	build := func() Digest {
		h := NewHasher()
		h.WriteUint64(7)
		h.WriteString("heading")
		h.WriteDigest(Of("nested"))
		return h.Sum()
	}

	if build() != build() {
		t.Error("identical write sequences should agree")
	}
}

func TestHasherSumExtends(t *testing.T) {
	h := NewHasher()
	h.WriteString("first")
	before := h.Sum()

	h.WriteString("second")
	after := h.Sum()

	if before == after {
		t.Error("writes after Sum() should extend the stream")
	}
}
