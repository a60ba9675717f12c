package typeset

import (
	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/fingerprint"
)

// Context is the per-pass handle given to layout code. It bundles read
// access to the world, the pass's identity provider, and the introspector
// filled by the previous pass.
//
// A context lives for exactly one pass. Layout sub-computations may share
// it freely across goroutines; Identify and Locate are safe for
// concurrent use. Nothing on the context lets layout code mutate the
// introspector, so a pass can never observe its own output.
type Context struct {
	world        World
	provider     *StabilityProvider
	introspector *Introspector
}

func newContext(world World, provider *StabilityProvider, introspector *Introspector) *Context {
	return &Context{world: world, provider: provider, introspector: introspector}
}

// World returns the environment of this run.
func (c *Context) World() World {
	return c.world
}

// Identify hashes key and returns a reproducible identity for the calling
// site. Calling again with the same key yields the next slot.
//
// The key must be JSON-marshalable; layout call sites typically use the
// span of the content they are placing, so identity survives as long as
// the source node does.
func (c *Context) Identify(key any) doc.StableID {
	return c.provider.Identify(fingerprint.Of(key))
}

// Locate queries the previous pass's placed content. During the first
// pass the index is empty and every selector answers with no matches;
// content rendered from such answers is what the following passes then
// stabilize.
func (c *Context) Locate(selector doc.Selector) []Match {
	return c.introspector.Locate(selector)
}
