package doc

import (
	"encoding/json"

	"github.com/foliokit/folio/pkg/fingerprint"
)

// Styles is the document-level style configuration handed to layout.
// It behaves as an immutable key-value chain: With layers a value on top
// without mutating the receiver, so a base configuration can be shared.
type Styles struct {
	values map[string]any
}

// NewStyles creates an empty style chain.
func NewStyles() Styles {
	return Styles{}
}

// With returns a copy of s with one value set.
func (s Styles) With(key string, v any) Styles {
	values := make(map[string]any, len(s.values)+1)
	for k, val := range s.values {
		values[k] = val
	}
	values[key] = v
	return Styles{values: values}
}

// Get returns the raw value for key.
func (s Styles) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Float returns a numeric style, or def if unset.
func (s Styles) Float(key string, def float64) float64 {
	switch v := s.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// Int returns an integer style, or def if unset.
func (s Styles) Int(key string, def int) int {
	switch v := s.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Str returns a string style, or def if unset.
func (s Styles) Str(key string, def string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return def
}

// Fingerprint digests the full chain. Equal chains digest equally
// regardless of insertion order.
func (s Styles) Fingerprint() fingerprint.Digest {
	return fingerprint.Of(s.values)
}

// MarshalJSON encodes the chain as a plain object.
func (s Styles) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.values)
}

// UnmarshalJSON decodes a plain object into the chain.
func (s *Styles) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.values)
}
