package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

// maxClassifyDocuments bounds one synchronous classify request.
const maxClassifyDocuments = 500

type classifyRequest struct {
	Documents []pipeline.BatchDocument `json:"documents"`
}

type classifyResponse struct {
	Results map[string]doctree.DocumentOutline `json:"results"`
}

// handleClassify classifies pre-extracted fragment streams synchronously.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req classifyRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}
	if len(req.Documents) > maxClassifyDocuments {
		jsonError(w, fmt.Sprintf("too many documents (max %d)", maxClassifyDocuments), http.StatusBadRequest)
		return
	}
	seen := make(map[string]bool, len(req.Documents))
	for i, d := range req.Documents {
		if d.ID == "" {
			jsonError(w, fmt.Sprintf("documents[%d]: id is required", i), http.StatusBadRequest)
			return
		}
		if seen[d.ID] {
			jsonError(w, fmt.Sprintf("duplicate document id %q", d.ID), http.StatusBadRequest)
			return
		}
		seen[d.ID] = true
	}

	outlines, err := pipeline.RunBatch(r.Context(), s.orchestrator.Classifier(), req.Documents, s.cfg.WorkerCount)
	if err != nil {
		jsonError(w, "classification cancelled: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	resp := classifyResponse{Results: make(map[string]doctree.DocumentOutline, len(outlines))}
	for i, o := range outlines {
		resp.Results[req.Documents[i].ID] = o
	}
	writeJSON(w, http.StatusOK, resp)
}
