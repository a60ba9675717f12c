package syntax

// Spanned pairs a value with the span it originated from. Loaders return
// Spanned values so that later stages can report positions without keeping
// the source tree around.
type Spanned[T any] struct {
	V    T
	Span Span
}

// NewSpanned creates a spanned value.
func NewSpanned[T any](v T, span Span) Spanned[T] {
	return Spanned[T]{V: v, Span: span}
}

// MapSpanned transforms the value while keeping its span.
func MapSpanned[T, U any](s Spanned[T], f func(T) U) Spanned[U] {
	return Spanned[U]{V: f(s.V), Span: s.Span}
}
