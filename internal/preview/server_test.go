package preview

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/session"
)

const testManifest = `
[document]
title = "Test Document"

[[block]]
kind = "heading"
level = 1
text = "Introduction"
label = "intro"

[[block]]
kind = "paragraph"
text = "A paragraph that refers back to the introduction."

[[block]]
kind = "ref"
target = "intro"
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{Logger: log.New(io.Discard)})
}

// createDocument posts the test manifest and returns the new session.
func createDocument(t *testing.T, router http.Handler) *session.Session {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(testManifest))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/documents status = %d, body %s", rec.Code, rec.Body.String())
	}

	var sess session.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("Decode session: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Created session has no ID")
	}
	return &sess
}

func TestHealth(t *testing.T) {
	router := newTestServer(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Decode health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if body["version"] == "" {
		t.Error("version should be set")
	}
}

func TestCreateDocument(t *testing.T) {
	router := newTestServer(t).Router()
	sess := createDocument(t, router)

	if sess.Title != "Test Document" {
		t.Errorf("Title = %q", sess.Title)
	}
	if sess.Pages < 1 {
		t.Errorf("Pages = %d, want at least 1", sess.Pages)
	}
	if !sess.Converged {
		t.Error("A plain document should converge")
	}
	if sess.ContentHash == "" || sess.DocumentHash == "" {
		t.Error("Session should carry content and document hashes")
	}
}

func TestCreateDocumentInvalid(t *testing.T) {
	router := newTestServer(t).Router()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"malformed toml", "[[block]\nkind =", http.StatusBadRequest},
		{"unknown kind", "[[block]]\nkind = \"sidebar\"", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Decode error response: %v", err)
			}
			if body["error"] == "" || body["code"] == "" {
				t.Errorf("Error response should carry error and code, got %v", body)
			}
		})
	}
}

func TestListDocuments(t *testing.T) {
	router := newTestServer(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/documents status = %d", rec.Code)
	}
	var sessions []session.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("Decode session list: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("Fresh server should list no sessions, got %d", len(sessions))
	}

	created := createDocument(t, router)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("Decode session list: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != created.ID {
		t.Errorf("List should return the created session, got %v", sessions)
	}
}

func TestGetDocument(t *testing.T) {
	router := newTestServer(t).Router()
	sess := createDocument(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET document status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var document struct {
		Pages []json.RawMessage `json:"pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &document); err != nil {
		t.Fatalf("Decode document: %v", err)
	}
	if len(document.Pages) < 1 {
		t.Error("Document should have at least one page")
	}
}

func TestGetDocumentMissing(t *testing.T) {
	router := newTestServer(t).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/documents/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Missing session status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Decode error response: %v", err)
	}
	if body["code"] != "SESSION_NOT_FOUND" {
		t.Errorf("code = %q, want SESSION_NOT_FOUND", body["code"])
	}
}

func TestQueryDocument(t *testing.T) {
	router := newTestServer(t).Router()
	sess := createDocument(t, router)

	query := func(t *testing.T, params string) (int, map[string]any) {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/documents/"+sess.ID+"/query"+params, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("Decode query response: %v", err)
		}
		return rec.Code, body
	}

	t.Run("by element", func(t *testing.T) {
		status, body := query(t, "?element=heading")
		if status != http.StatusOK {
			t.Fatalf("status = %d, body %v", status, body)
		}
		if body["count"].(float64) < 1 {
			t.Error("Query for headings should match at least once")
		}
		matches := body["matches"].([]any)
		first := matches[0].(map[string]any)
		if first["element"] != "heading" {
			t.Errorf("element = %v", first["element"])
		}
		if first["page"].(float64) < 1 {
			t.Errorf("page = %v, want at least 1", first["page"])
		}
	})

	t.Run("by label", func(t *testing.T) {
		status, body := query(t, "?label=intro")
		if status != http.StatusOK {
			t.Fatalf("status = %d, body %v", status, body)
		}
		if body["count"].(float64) != 1 {
			t.Errorf("count = %v, want 1", body["count"])
		}
	})

	t.Run("no matches", func(t *testing.T) {
		status, body := query(t, "?label=missing")
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if body["count"].(float64) != 0 {
			t.Errorf("count = %v, want 0", body["count"])
		}
	})

	t.Run("missing parameters", func(t *testing.T) {
		if status, _ := query(t, ""); status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("conflicting parameters", func(t *testing.T) {
		if status, _ := query(t, "?element=heading&label=intro"); status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("invalid element name", func(t *testing.T) {
		if status, _ := query(t, "?element=not%20valid"); status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})
}

func TestDocumentSVG(t *testing.T) {
	router := newTestServer(t).Router()
	sess := createDocument(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+sess.ID+"/svg", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET svg status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("Response should contain an svg element")
	}
}

func TestDeleteDocument(t *testing.T) {
	router := newTestServer(t).Router()
	sess := createDocument(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/"+sess.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Deleted session status = %d, want 404", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid manifest", errors.New(errors.ErrCodeInvalidManifest, "bad"), http.StatusBadRequest},
		{"layout", errors.New(errors.ErrCodeLayout, "overflow"), http.StatusUnprocessableEntity},
		{"session not found", errors.New(errors.ErrCodeSessionNotFound, "gone"), http.StatusNotFound},
		{"storage", errors.New(errors.ErrCodeStorage, "down"), http.StatusServiceUnavailable},
		{"unknown", io.EOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
