package doc

// Selector is a predicate over placed content. Implementations must be
// pure: Matches may run many times against the same index and must always
// answer the same. Key returns a stable identity used to deduplicate
// recorded queries and to checksum their results, so two selectors with
// equal keys must match identically.
type Selector interface {
	Matches(c *Content) bool
	Key() string
}

// ElementSelector matches content by element name.
type ElementSelector struct {
	Elem string
}

// SelectElement creates a selector matching every node of one element.
func SelectElement(elem string) ElementSelector {
	return ElementSelector{Elem: elem}
}

// Matches reports whether c is the selected element.
func (s ElementSelector) Matches(c *Content) bool {
	return c.Elem() == s.Elem
}

// Key returns "elem:<name>".
func (s ElementSelector) Key() string {
	return "elem:" + s.Elem
}

// LabelSelector matches content carrying a given label field.
type LabelSelector struct {
	Label string
}

// SelectLabel creates a selector matching nodes labeled with label.
func SelectLabel(label string) LabelSelector {
	return LabelSelector{Label: label}
}

// Matches reports whether c carries the selected label.
func (s LabelSelector) Matches(c *Content) bool {
	return c.Label() == s.Label
}

// Key returns "label:<name>".
func (s LabelSelector) Key() string {
	return "label:" + s.Label
}
