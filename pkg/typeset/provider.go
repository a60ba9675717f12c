package typeset

import (
	"sync"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/fingerprint"
)

// StabilityProvider hands out reproducible identities within one layout
// pass. Each call site asks with a fingerprint of its own key; the
// provider answers with that fingerprint plus a slot counting how many
// times the fingerprint has been seen this pass.
//
// A fresh provider starts every pass and is discarded afterwards. Nothing
// carries over; reproducibility comes purely from layout issuing the same
// requests in the same order each pass.
type StabilityProvider struct {
	mu    sync.Mutex
	slots map[fingerprint.Digest]uint64
}

// NewStabilityProvider creates an empty provider.
func NewStabilityProvider() *StabilityProvider {
	return &StabilityProvider{slots: make(map[fingerprint.Digest]uint64)}
}

// Identify returns the next identity for the given call-site fingerprint.
// The first request for a fingerprint gets slot 0, the second slot 1, and
// so on. Safe for concurrent use; concurrent callers with the same
// fingerprint are serialized so no slot is lost or duplicated.
func (p *StabilityProvider) Identify(fp fingerprint.Digest) doc.StableID {
	p.mu.Lock()
	defer p.mu.Unlock()
	slot := p.slots[fp]
	p.slots[fp] = slot + 1
	return doc.StableID{Fingerprint: fp, Slot: slot}
}
