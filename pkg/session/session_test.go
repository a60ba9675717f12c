package session

import (
	"context"
	"testing"
	"time"

	"github.com/foliokit/folio/pkg/manifest"
	"github.com/foliokit/folio/pkg/pipeline"
)

func testResult(title string) *pipeline.Result {
	return &pipeline.Result{
		Loaded:       &manifest.Loaded{Title: title, Blocks: 2},
		ContentHash:  "content-hash",
		DocumentHash: "document-hash",
		Passes:       2,
		Converged:    true,
		Stats:        pipeline.Stats{PageCount: 1, BlockCount: 2},
	}
}

func TestNew(t *testing.T) {
	sess := New("report.toml", testResult("Report"), DefaultTTL)

	if sess.ID == "" {
		t.Error("New() should assign an ID")
	}
	if sess.Title != "Report" {
		t.Errorf("Title = %q, want %q", sess.Title, "Report")
	}
	if sess.Source != "report.toml" {
		t.Errorf("Source = %q", sess.Source)
	}
	if sess.Pages != 1 || sess.Passes != 2 || !sess.Converged {
		t.Errorf("Result fields not carried over: %+v", sess)
	}
	if sess.IsExpired() {
		t.Error("Fresh session should not be expired")
	}

	other := New("report.toml", testResult("Report"), DefaultTTL)
	if other.ID == sess.ID {
		t.Error("Sessions should get unique IDs")
	}
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Missing session is nil, nil
	got, err := store.Get(ctx, "absent")
	if err != nil || got != nil {
		t.Errorf("Get(absent) = %v, %v, want nil, nil", got, err)
	}

	sess := New("a.toml", testResult("A"), DefaultTTL)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err = store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Errorf("Get returned %+v", got)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("Get after Delete should return nil")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := New("a.toml", testResult("A"), -time.Minute)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	if _, err := store.Get(ctx, sess.ID); err != ErrExpired {
		t.Errorf("Get expired session error = %v, want ErrExpired", err)
	}

	// Cleanup drops it entirely
	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup error: %v", err)
	}
	if got, err := store.Get(ctx, sess.ID); err != nil || got != nil {
		t.Errorf("Get after Cleanup = %v, %v, want nil, nil", got, err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	older := New("a.toml", testResult("A"), DefaultTTL)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := New("b.toml", testResult("B"), DefaultTTL)
	expired := New("c.toml", testResult("C"), -time.Minute)

	for _, s := range []*Session{older, newer, expired} {
		if err := store.Set(ctx, s); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("List returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != newer.ID {
		t.Error("List should order newest first")
	}
	for _, s := range sessions {
		if s.ID == expired.ID {
			t.Error("List should skip expired sessions")
		}
	}
}
