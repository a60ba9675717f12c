// Package doc defines the document model shared by layout and
// introspection: content trees going into layout, and frame trees coming
// out of it.
//
// # Overview
//
// A [Content] value is one node of the evaluated input: an element name
// plus a bag of fields (headings, paragraphs, references, ...). Layout
// turns content into a [Document], an ordered list of pages where each
// page is a [Frame]: a recursive tree of positioned items. Three item
// kinds matter to introspection:
//
//   - [GroupItem] nests a sub-frame with an offset and an affine
//     transform that compose with the ancestors' transforms
//   - [TagItem] marks the position of an identity-tagged piece of content
//     inside the page
//   - everything else ([TextItem], [RuleItem]) is visual output that
//     introspection skips over
//
// After each layout pass the introspector walks the frames, finds every
// [TagItem], and attaches a [Location] (1-based page number and
// transform-mapped position) to a snapshot of its content under the
// reserved [LocationKey] field. Queries over placed content are expressed
// as a [Selector] and answered from that index.
//
// # Identity
//
// A [StableID] names one occurrence of a layout call site. IDs are
// reproducible across layout passes, which is what lets a query result
// from the previous pass be compared against the current one.
package doc
