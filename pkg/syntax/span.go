// Package syntax provides provenance addressing for syntax-tree nodes.
//
// # Overview
//
// Every node of a parsed document carries a [Span]: a compact address that
// records which source file the node came from and where it sits in that
// file's tree. Spans are the handle that downstream layers (layout caching,
// diagnostics) use to refer back to source positions without holding the
// tree itself.
//
// A span packs two fields into a single 64-bit value:
//
//   - the top 16 bits hold the [SourceID] of the file
//   - the low 48 bits hold an ordinal number assigned in tree order
//
// The numbering pass that assigns ordinals guarantees that comparing spans
// from the same source mirrors tree structure: an ancestor's number is
// always smaller than every number in its subtree, and all numbers in a
// left sibling subtree are smaller than all numbers in a right one. Numbers
// are handed out with gaps so that inserting nodes renumbers only a local
// neighborhood, keeping span values stable across unrelated edits. That
// stability is what makes spans usable as cache keys.
//
// The zero Span is "no value", so an optional span costs no extra space.
// [Detached] returns the reserved sentinel for nodes with no real source
// position.
package syntax

import (
	"cmp"
	"fmt"
)

// SourceID identifies one loaded source file. IDs are assigned by whatever
// loads sources; this package only stores and compares them.
type SourceID uint16

// Ordinal range reserved for real span numbers. The values below MinNumber
// are taken: 0 is the "no span" pattern and 1 is the detached sentinel.
const (
	numberBits = 48

	// MinNumber is the smallest ordinal a numbering pass may assign.
	MinNumber uint64 = 2

	// MaxNumber is the exclusive upper bound of the ordinal range.
	MaxNumber uint64 = 1 << numberBits

	detachedBits uint64 = 1
)

// Span is the provenance address of a syntax node.
//
// Spans are immutable, cheap to copy, and totally ordered consistently with
// (source, number) lexicographic order. The zero value is "no span".
type Span struct {
	bits uint64
}

// NewSpan creates a span for the given source and ordinal number.
//
// The number must lie in [MinNumber, MaxNumber). Anything else indicates a
// bug in the numbering pass, not bad user input, so NewSpan panics.
func NewSpan(source SourceID, number uint64) Span {
	if number < MinNumber || number >= MaxNumber {
		panic(fmt.Sprintf("syntax: span number %d out of range [%d, %d)", number, MinNumber, MaxNumber))
	}
	return Span{bits: uint64(source)<<numberBits | number}
}

// Detached returns the sentinel span that carries no source position.
// It is the safe default for synthesized nodes.
func Detached() Span {
	return Span{bits: detachedBits}
}

// IsZero reports whether s is the "no span" value.
func (s Span) IsZero() bool {
	return s.bits == 0
}

// IsDetached reports whether s is the detached sentinel.
func (s Span) IsDetached() bool {
	return s.bits == detachedBits
}

// Source returns the id of the file this span points into.
// Meaningless for zero or detached spans.
func (s Span) Source() SourceID {
	return SourceID(s.bits >> numberBits)
}

// Number returns the tree-order ordinal of this span.
func (s Span) Number() uint64 {
	return s.bits & (MaxNumber - 1)
}

// Compare orders spans by (source, number). The packed representation makes
// this a single integer comparison.
func (s Span) Compare(other Span) int {
	return cmp.Compare(s.bits, other.bits)
}

// Raw returns the packed bit pattern, for serialization.
func (s Span) Raw() uint64 {
	return s.bits
}

// FromRaw reconstitutes a span from its packed bit pattern. Patterns that
// decode to an out-of-range number yield the zero span.
func FromRaw(bits uint64) Span {
	s := Span{bits: bits}
	if bits > detachedBits && s.Number() < MinNumber {
		return Span{}
	}
	return s
}

// String formats the span for diagnostics.
func (s Span) String() string {
	switch {
	case s.IsZero():
		return "span(none)"
	case s.IsDetached():
		return "span(detached)"
	default:
		return fmt.Sprintf("span(%d:%d)", s.Source(), s.Number())
	}
}
