// Package preview implements the HTTP preview server behind
// `folio preview`.
//
// The server accepts manifests over a small JSON API, typesets them
// through the shared pipeline, and holds the results as sessions so
// clients can query locations and fetch debug renderings without
// re-typesetting. Sessions live in memory and expire; this is a
// development tool, not a document store.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/foliokit/folio/pkg/cache"
	"github.com/foliokit/folio/pkg/observability"
	"github.com/foliokit/folio/pkg/pipeline"
	"github.com/foliokit/folio/pkg/session"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:8780"

	// drainTimeout bounds how long shutdown waits for in-flight
	// requests.
	drainTimeout = 10 * time.Second

	// maxManifestBytes bounds the accepted request body size.
	maxManifestBytes = 1 << 20
)

// Config configures the preview server.
type Config struct {
	// Addr is the listen address, DefaultAddr when empty.
	Addr string

	// Cache backs the pipeline; nil disables caching.
	Cache cache.Cache

	// Logger receives request and lifecycle logs.
	Logger *log.Logger

	// SessionTTL is how long stored documents live,
	// session.DefaultTTL when zero.
	SessionTTL time.Duration
}

// Server serves the preview API.
type Server struct {
	addr   string
	store  session.Store
	runner *pipeline.Runner
	logger *log.Logger
	ttl    time.Duration
}

// New creates a server from config.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	return &Server{
		addr:   cfg.Addr,
		store:  session.NewMemoryStore(),
		runner: pipeline.NewRunner(cfg.Cache, nil, cfg.Logger),
		logger: cfg.Logger,
		ttl:    cfg.SessionTTL,
	}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/documents", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/query", s.handleQuery)
			r.Get("/svg", s.handleSVG)
		})
	})

	return r
}

// Start runs the server until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go s.janitor(janitorCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// janitor prunes expired sessions until ctx is cancelled.
func (s *Server) janitor(ctx context.Context) {
	ticker := time.NewTicker(session.DefaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// logRequests logs each request and feeds the server hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)
		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
