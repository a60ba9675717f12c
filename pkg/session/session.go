// Package session manages the documents held by a preview server.
//
// A session is one typeset document: the manifest it came from, the full
// pipeline result, and bookkeeping for expiry. Sessions are identified
// by UUID and expire after a TTL so an idle server does not accumulate
// documents forever.
//
// # Usage
//
// Create a store and add a session:
//
//	store := session.NewMemoryStore()
//
//	sess := session.New("report.toml", result, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	// Retrieve session
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found
//	}
//
// A janitor goroutine should call Cleanup periodically to drop expired
// sessions.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/foliokit/folio/pkg/pipeline"
)

// ErrExpired is returned when a session has exceeded its TTL.
var ErrExpired = errors.New("expired")

// Default durations.
const (
	// DefaultTTL is the default session duration.
	DefaultTTL = 2 * time.Hour

	// DefaultCleanupInterval is how often the janitor prunes expired
	// sessions.
	DefaultCleanupInterval = 10 * time.Minute
)

// Session stores one preview document.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	Source       string    `json:"source,omitempty"`
	ContentHash  string    `json:"content_hash"`
	DocumentHash string    `json:"document_hash"`
	Pages        int       `json:"pages"`
	Passes       int       `json:"passes"`
	Converged    bool      `json:"converged"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	// Result holds the full pipeline output for queries and rendering.
	// It is not part of the serialized session metadata.
	Result *pipeline.Result `json:"-"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session for a pipeline result. The source names where
// the manifest came from, e.g. a file path or "(inline)".
func New(source string, result *pipeline.Result, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		Title:        result.Loaded.Title,
		Source:       source,
		ContentHash:  result.ContentHash,
		DocumentHash: result.DocumentHash,
		Pages:        result.Stats.PageCount,
		Passes:       result.Passes,
		Converged:    result.Converged,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		Result:       result,
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// List returns all live sessions, newest first.
	List(ctx context.Context) ([]*Session, error)

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}
