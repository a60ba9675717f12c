package preview

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foliokit/folio/pkg/buildinfo"
	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/pipeline"
	"github.com/foliokit/folio/pkg/render/framedot"
	"github.com/foliokit/folio/pkg/session"
)

// queryMatch is one query result on the wire.
type queryMatch struct {
	ID      string  `json:"id"`
	Element string  `json:"element"`
	Label   string  `json:"label,omitempty"`
	Page    int     `json:"page"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// handleHealth reports liveness and the build version.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleCreate typesets a posted manifest and stores the result as a
// new session.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxManifestBytes+1))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(body) > maxManifestBytes {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "manifest exceeds %d bytes", maxManifestBytes))
		return
	}
	if len(body) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "request body is empty"))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Manifest: string(body),
		Formats:  []string{pipeline.FormatJSON},
		Logger:   s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	sess := session.New("(api)", result, s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "store session"))
		return
	}

	s.logger.Info("created session",
		"id", sess.ID,
		"title", sess.Title,
		"pages", sess.Pages,
		"passes", sess.Passes)
	writeJSON(w, http.StatusCreated, sess)
}

// handleList returns metadata for all live sessions, newest first.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "list sessions"))
		return
	}
	if sessions == nil {
		sessions = []*session.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleGet returns the full laid-out document of a session.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.fetchSession(w, r)
	if !ok {
		return
	}

	data, err := doc.MarshalDocument(sess.Result.Document)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleDelete removes a session.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleQuery answers element or label queries against a session's
// document and returns the resolved page positions.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.fetchSession(w, r)
	if !ok {
		return
	}

	element := r.URL.Query().Get("element")
	label := r.URL.Query().Get("label")

	var selector doc.Selector
	switch {
	case element != "" && label != "":
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "element and label are mutually exclusive"))
		return
	case element != "":
		if err := errors.ValidateElementName(element); err != nil {
			writeError(w, err)
			return
		}
		selector = doc.SelectElement(element)
	case label != "":
		if err := errors.ValidateLabel(label); err != nil {
			writeError(w, err)
			return
		}
		selector = doc.SelectLabel(label)
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "element or label query parameter is required"))
		return
	}

	matches := sess.Result.Introspector.Locate(selector)
	out := make([]queryMatch, 0, len(matches))
	for _, m := range matches {
		qm := queryMatch{
			ID:      m.ID.String(),
			Element: m.Content.Elem(),
			Label:   m.Content.Label(),
		}
		if loc, ok := m.Content.Location(); ok {
			qm.Page = loc.Page
			qm.X = loc.Pos.X
			qm.Y = loc.Pos.Y
		}
		out = append(out, qm)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   selector.Key(),
		"count":   len(out),
		"matches": out,
	})
}

// handleSVG renders the session's frame tree as a detailed SVG
// diagram.
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.fetchSession(w, r)
	if !ok {
		return
	}

	dot := framedot.ToDOT(sess.Result.Document, framedot.Options{Detailed: true})
	svg, err := framedot.RenderSVG(dot)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render diagram"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// fetchSession resolves the {id} route parameter to a live session,
// writing the error response itself when there is none.
func (s *Server) fetchSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		if err == session.ErrExpired {
			writeStatusError(w, http.StatusGone, errors.New(errors.ErrCodeSessionNotFound, "session %s has expired", id))
			return nil, false
		}
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "get session"))
		return nil, false
	}
	if sess == nil {
		writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id))
		return nil, false
	}
	return sess, true
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response with the status implied by its
// code.
func writeError(w http.ResponseWriter, err error) {
	writeStatusError(w, statusFor(err), err)
}

// writeStatusError writes an error response with an explicit status.
func writeStatusError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidManifest,
		errors.ErrCodeInvalidElement,
		errors.ErrCodeInvalidLabel,
		errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeLayout:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
