package doc

import "github.com/foliokit/folio/pkg/geom"

// LocationKey is the reserved content field under which the introspector
// records where a tagged node landed. Input content must not use it.
const LocationKey = "loc"

// Location says where a tagged node was placed: the 1-based page number
// and the position in that page's coordinates, with all enclosing group
// transforms applied.
type Location struct {
	Page int        `json:"page"`
	Pos  geom.Point `json:"position"`
}

// SetLocation attaches loc under the reserved field.
func (c *Content) SetLocation(loc Location) {
	c.SetField(LocationKey, loc)
}

// Location returns the attached location, if any. It tolerates the
// map form that JSON round-trips produce.
func (c *Content) Location() (Location, bool) {
	v, ok := c.Field(LocationKey)
	if !ok {
		return Location{}, false
	}
	switch loc := v.(type) {
	case Location:
		return loc, true
	case map[string]any:
		out := Location{}
		if page, ok := loc["page"].(float64); ok {
			out.Page = int(page)
		}
		if pos, ok := loc["position"].(map[string]any); ok {
			x, _ := pos["x"].(float64)
			y, _ := pos["y"].(float64)
			out.Pos = geom.Pt(x, y)
		}
		return out, out.Page > 0
	default:
		return Location{}, false
	}
}
