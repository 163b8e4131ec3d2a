package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists every document recorded in the run manifest.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.Manifest()
	if store == nil {
		jsonError(w, "manifest disabled", http.StatusServiceUnavailable)
		return
	}

	entries, err := store.List(r.Context())
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	docs := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, map[string]any{
			"filename":     e.Filename,
			"title":        e.Title,
			"content_hash": e.ContentHash,
			"units":        e.Units,
			"over_budget":  e.OverBudget,
			"output_path":  e.OutputPath,
			"processed_at": e.ProcessedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument forgets a document and removes its output file, so
// the next run chunks it again.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.Manifest()
	if store == nil {
		jsonError(w, "manifest disabled", http.StatusServiceUnavailable)
		return
	}

	name := sanitizeFilename(chi.URLParam(r, "name"))
	ctx := r.Context()

	entry, err := store.Get(ctx, name)
	if err != nil {
		jsonError(w, "failed to read manifest: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if entry == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	outputRemoved := false
	if entry.OutputPath != "" {
		err := os.Remove(entry.OutputPath)
		switch {
		case err == nil:
			outputRemoved = true
		case !errors.Is(err, os.ErrNotExist):
			s.log.Warn("output removal failed", "path", entry.OutputPath, "error", err)
		}
	}

	if _, err := store.Delete(ctx, name); err != nil {
		jsonError(w, "failed to delete manifest entry: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":       name,
		"output_removed": outputRemoved,
	})
}
