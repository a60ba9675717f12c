package cache

// ScopedKeyer wraps a Keyer with a prefix so separate projects or
// preview sessions can share one backend without sharing entries.
//
// Example usage:
//
//	// Per-project keys for a shared Redis instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "proj:docs:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ContentKey generates a prefixed key for a loaded content tree.
func (k *ScopedKeyer) ContentKey(manifestHash string) string {
	return k.prefix + k.inner.ContentKey(manifestHash)
}

// TypesetKey generates a prefixed key for a typeset document.
func (k *ScopedKeyer) TypesetKey(contentHash string, opts TypesetKeyOpts) string {
	return k.prefix + k.inner.TypesetKey(contentHash, opts)
}

// ExportKey generates a prefixed key for an exported artifact.
func (k *ScopedKeyer) ExportKey(documentHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(documentHash, opts)
}
