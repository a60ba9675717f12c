// Package geom provides the minimal 2D geometry used by frames: points,
// sizes, and affine transforms. Coordinates are float64 typographic points
// with the origin at a page's top-left corner and y growing downward.
package geom

import "math"

// Point is a position in page coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt creates a point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p shifted by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Transform maps p through t.
func (p Point) Transform(t Transform) Point {
	return Point{
		X: t.SX*p.X + t.KX*p.Y + t.TX,
		Y: t.KY*p.X + t.SY*p.Y + t.TY,
	}
}

// Size is the extent of a frame.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Transform is a 2D affine transform, the top two rows of the 3x3 matrix
//
//	| SX KX TX |
//	| KY SY TY |
//	|  0  0  1 |
type Transform struct {
	SX float64 `json:"sx"`
	KY float64 `json:"ky"`
	KX float64 `json:"kx"`
	SY float64 `json:"sy"`
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform {
	return Transform{SX: 1, SY: 1}
}

// Translate returns a pure translation.
func Translate(x, y float64) Transform {
	return Transform{SX: 1, SY: 1, TX: x, TY: y}
}

// Scale returns a scale about the origin.
func Scale(sx, sy float64) Transform {
	return Transform{SX: sx, SY: sy}
}

// Rotate returns a rotation about the origin by the given angle in radians.
func Rotate(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	return Transform{SX: cos, KY: sin, KX: -sin, SY: cos}
}

// IsIdentity reports whether t maps every point to itself.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// PreConcat returns the transform that applies other first and then t.
// Descending into a nested frame accumulates as
// parent.PreConcat(Translate(pos)).PreConcat(child).
func (t Transform) PreConcat(other Transform) Transform {
	return Transform{
		SX: t.SX*other.SX + t.KX*other.KY,
		KY: t.KY*other.SX + t.SY*other.KY,
		KX: t.SX*other.KX + t.KX*other.SY,
		SY: t.KY*other.KX + t.SY*other.SY,
		TX: t.SX*other.TX + t.KX*other.TY + t.TX,
		TY: t.KY*other.TX + t.SY*other.TY + t.TY,
	}
}
