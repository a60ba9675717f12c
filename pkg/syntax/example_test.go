package syntax_test

import (
	"fmt"

	"github.com/foliokit/folio/pkg/syntax"
)

func ExampleNewSpan() {
	// Numbering assigns gap-separated ordinals in tree order, so span
	// comparison mirrors the tree: ancestors sort before descendants.
	root := syntax.NewSpan(1, 64)
	child := syntax.NewSpan(1, 128)

	fmt.Println("root before child:", root.Compare(child) < 0)
	fmt.Println(root)
	// Output:
	// root before child: true
	// span(1:64)
}

func ExampleDetached() {
	// Synthesized nodes carry the detached sentinel instead of a real
	// source position.
	span := syntax.Detached()

	fmt.Println(span.IsDetached())
	fmt.Println(span)
	// Output:
	// true
	// span(detached)
}

func ExampleSpan_Raw() {
	// Spans survive serialization as a single integer.
	span := syntax.NewSpan(3, 256)
	restored := syntax.FromRaw(span.Raw())

	fmt.Println(restored == span)
	// Output: true
}
