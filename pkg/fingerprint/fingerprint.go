// Package fingerprint derives compact content-addressed digests.
//
// Digests identify logical values: equal inputs always produce equal
// digests, and distinct inputs collide with cryptographic improbability.
// They are used as call-site identities, as query-result checksums, and as
// cache-key components, so derivation must be deterministic across
// processes and runs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
)

// Size is the digest width in bytes.
const Size = 16

// Digest is a 128-bit content fingerprint. The zero value means "no
// fingerprint". Digests are comparable with ==.
type Digest [Size]byte

// Of fingerprints an arbitrary set of values. Values are serialized with
// deterministic JSON (struct field order, sorted map keys), so any
// JSON-marshalable value works as input. Unmarshalable values contribute
// nothing, mirroring how cache keys treat them.
func Of(values ...any) Digest {
	data, _ := json.Marshal(values)
	return OfBytes(data)
}

// OfBytes fingerprints raw bytes.
func OfBytes(data []byte) Digest {
	sum := sha256.Sum256(data)
	var d Digest
	copy(d[:], sum[:Size])
	return d
}

// IsZero reports whether d is the empty fingerprint.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText encodes the digest as hex, so digests embed in JSON as
// plain strings.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a hex digest.
func (d *Digest) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	if len(raw) != Size {
		return fmt.Errorf("fingerprint: digest must be %d bytes, got %d", Size, len(raw))
	}
	copy(d[:], raw)
	return nil
}

// Hasher accumulates an order-sensitive digest over a sequence of writes.
// Feeding the same values in a different order yields a different digest,
// which is what result-list checksums rely on.
type Hasher struct {
	h hash.Hash
}

// NewHasher creates an empty hasher.
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// Write adds raw bytes.
func (h *Hasher) Write(p []byte) {
	h.h.Write(p)
}

// WriteString adds a string, length-prefixed so adjacent strings cannot
// run together.
func (h *Hasher) WriteString(s string) {
	h.WriteUint64(uint64(len(s)))
	h.h.Write([]byte(s))
}

// WriteUint64 adds an integer in fixed-width big-endian form.
func (h *Hasher) WriteUint64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.h.Write(buf[:])
}

// WriteDigest adds a previously computed digest.
func (h *Hasher) WriteDigest(d Digest) {
	h.h.Write(d[:])
}

// Sum finalizes the accumulated digest. The hasher remains usable; later
// writes extend the same stream.
func (h *Hasher) Sum() Digest {
	var d Digest
	copy(d[:], h.h.Sum(nil)[:Size])
	return d
}
