package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/docoutline/internal/pathstore"
	"github.com/go-chi/chi/v5"
)

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		jsonError(w, "outline storage is not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// handleListDocuments lists stored outlines.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	docs, err := s.store.ListOutlines(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGetDocumentOutline(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	docID := chi.URLParam(r, "docID")
	doc, err := s.store.GetOutline(r.Context(), docID)
	if errors.Is(err, pathstore.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to read outline: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, doc.Outline)
}

// handleDeleteDocument removes a stored outline.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	docID := chi.URLParam(r, "docID")
	err := s.store.DeleteOutline(r.Context(), docID)
	if errors.Is(err, pathstore.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete outline: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}
