package doc

import (
	"fmt"

	"github.com/foliokit/folio/pkg/fingerprint"
)

// StableID identifies one occurrence of a layout call site across passes.
//
// The fingerprint groups occurrences that arise from the same logical call
// site; the slot separates repeated occurrences within one pass, counted
// in first-seen order. Two ids are equal iff both parts match, so StableID
// is usable as a map key.
type StableID struct {
	Fingerprint fingerprint.Digest `json:"fingerprint"`
	Slot        uint64             `json:"slot"`
}

// IsZero reports whether the id is unset.
func (id StableID) IsZero() bool {
	return id == StableID{}
}

// String renders a short form for logs: the first fingerprint bytes plus
// the slot.
func (id StableID) String() string {
	return fmt.Sprintf("%x#%d", id.Fingerprint[:4], id.Slot)
}
