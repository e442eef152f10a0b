package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pathstore"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DocumentStore reads and removes persisted outlines. *pathstore.Client
// satisfies it.
type DocumentStore interface {
	GetOutline(ctx context.Context, docID string) (*pathstore.StoredOutline, error)
	DeleteOutline(ctx context.Context, docID string) error
	ListOutlines(ctx context.Context, limit int) ([]pathstore.StoredOutline, error)
}

// Server is the HTTP API server for docoutline.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        DocumentStore
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. A nil store disables the
// /api/documents endpoints.
func NewServer(orch *pipeline.Orchestrator, store DocumentStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        store,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.OutlinerAPIKey, s.log))

		r.Post("/api/outline", s.handleOutline)
		r.Post("/api/outline/batch", s.handleBatchOutline)
		r.Get("/api/outline/{jobID}", s.handleOutlineStatus)
		r.Post("/api/classify", s.handleClassify)
		r.Get("/api/stats/classify", s.handleClassifyStats)

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}/outline", s.handleGetDocumentOutline)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
