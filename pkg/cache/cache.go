// Package cache provides content-addressed caching for pipeline stages.
//
// Stages cache their serialized outputs under keys derived from the
// fingerprints of everything that went into them: the manifest bytes,
// the style chain, the engine version, export options. Equal inputs hit;
// any change misses. Backends cover three deployment shapes:
//
//   - [FileCache] for the CLI, entries on local disk
//   - [RedisCache] for shared short-lived caching across processes
//   - [MongoCache] for durable shared caching
//
// [NullCache] disables caching without touching call sites.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is the storage interface for cached stage outputs.
//
// Get reports a miss with (nil, false, nil); errors are reserved for
// backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves the data stored under key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never
	// expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per stage. Loaded content and typeset results follow the
// manifest closely, exports are pure derivations and can live longer.
const (
	// TTLContent applies to loaded content trees.
	TTLContent = 24 * time.Hour

	// TTLTypeset applies to typeset documents.
	TTLTypeset = 24 * time.Hour

	// TTLExport applies to exported artifacts.
	TTLExport = 72 * time.Hour
)

// TypesetKeyOpts carries everything besides the content that influences
// a typeset result.
type TypesetKeyOpts struct {
	StylesHash     string `json:"styles_hash"`
	LibraryVersion string `json:"library_version"`
}

// ExportKeyOpts carries export parameters.
type ExportKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer derives cache keys for pipeline stages. Implementations must be
// deterministic: equal inputs yield equal keys across processes.
type Keyer interface {
	// ContentKey keys a loaded content tree by its manifest hash.
	ContentKey(manifestHash string) string

	// TypesetKey keys a typeset document by its content hash and run
	// parameters.
	TypesetKey(contentHash string, opts TypesetKeyOpts) string

	// ExportKey keys an exported artifact by its document hash and
	// format.
	ExportKey(documentHash string, opts ExportKeyOpts) string
}

// DefaultKeyer derives keys as "<stage>:<sha256 of the inputs>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ContentKey generates a key for a loaded content tree.
func (k *DefaultKeyer) ContentKey(manifestHash string) string {
	return hashKey("content", manifestHash)
}

// TypesetKey generates a key for a typeset document.
func (k *DefaultKeyer) TypesetKey(contentHash string, opts TypesetKeyOpts) string {
	return hashKey("typeset", contentHash, opts)
}

// ExportKey generates a key for an exported artifact.
func (k *DefaultKeyer) ExportKey(documentHash string, opts ExportKeyOpts) string {
	return hashKey("export", documentHash, opts)
}

// hashKey builds a "<stage>:<digest>" key from the stage name and a
// deterministic JSON encoding of the remaining parts.
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return stage + ":" + hex.EncodeToString(sum[:])
}

// Hash digests raw bytes into the hex form used for manifest and
// document hashes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
