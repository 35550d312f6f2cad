package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/luminastudio/lumina/internal/engine"
	"github.com/luminastudio/lumina/internal/store"
)

// maxRequestBody is the maximum allowed request body size (32 MB, enough
// for three base64 reference images).
const maxRequestBody int64 = 32 << 20

// Server holds the HTTP handlers and dependencies.
type Server struct {
	studio     *engine.Studio
	gallery    store.Gallery
	corsOrigin string
	timeout    time.Duration
	mux        *http.ServeMux
}

// Option configures the Server.
type Option func(*Server)

// WithTimeout bounds each request's context. The event stream is exempt.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a new API server.
func New(studio *engine.Studio, gallery store.Gallery, corsOrigin string, opts ...Option) *Server {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	srv := &Server{studio: studio, gallery: gallery, corsOrigin: corsOrigin, mux: http.NewServeMux()}
	for _, opt := range opts {
		opt(srv)
	}
	srv.routes()
	return srv
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(limitBody(s.timeoutMiddleware(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/generate", s.handleGenerate)
	s.mux.HandleFunc("POST /api/edit", s.handleEdit)
	s.mux.HandleFunc("POST /api/upscale", s.handleUpscale)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/enhance", s.handleEnhance)
	s.mux.HandleFunc("GET /api/templates", s.handleTemplates)
	s.mux.HandleFunc("GET /api/models", s.handleModels)
	s.mux.HandleFunc("GET /api/gallery", s.handleListGallery)
	s.mux.HandleFunc("DELETE /api/gallery/{id}", s.handleDeleteArtifact)
	s.mux.HandleFunc("DELETE /api/gallery", s.handleClearGallery)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitBody restricts the request body to maxRequestBody bytes.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		next.ServeHTTP(w, r)
	})
}

// timeoutMiddleware bounds the request context. A timeout fails the whole
// operation, including every in-flight batch sub-call; nothing partial is
// persisted by the studio in atomic mode. The event stream is long-lived
// and exempt.
func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.timeout <= 0 || r.URL.Path == "/api/events" {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps core errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrEmptyPrompt),
		errors.Is(err, engine.ErrBadAspectRatio),
		errors.Is(err, engine.ErrImageCount):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrUnsupportedModel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
