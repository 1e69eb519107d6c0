package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	backendName := chi.URLParam(r, "backend")
	jobID := chi.URLParam(r, "jobID")

	ext, err := s.reg.Resolve(backendName)
	if err != nil {
		jsonError(w, err.Error(), errStatus(err))
		return
	}

	status, err := ext.Status(r.Context(), jobID)
	if err != nil {
		jsonError(w, err.Error(), errStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"backend":  backendName,
		"job_id":   jobID,
		"status":   status,
		"terminal": status.Terminal(),
	})
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	backendName := chi.URLParam(r, "backend")
	jobID := chi.URLParam(r, "jobID")

	ext, err := s.reg.Resolve(backendName)
	if err != nil {
		jsonError(w, err.Error(), errStatus(err))
		return
	}

	results, err := ext.Result(r.Context(), jobID)
	if err != nil {
		jsonError(w, err.Error(), errStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"backend": backendName,
		"job_id":  jobID,
		"results": results,
	})
}

// handleWebhook routes a remote callback to the backend that owns the job.
// The payload shape is backend-specific; the backend's adapter parses it.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	backendName := chi.URLParam(r, "backend")

	ext, err := s.reg.Resolve(backendName)
	if err != nil {
		jsonError(w, err.Error(), errStatus(err))
		return
	}
	if !ext.SupportsWebhook() {
		jsonError(w, "backend does not accept webhooks", http.StatusBadRequest)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, 32<<20))
	if err != nil {
		jsonError(w, "failed to read payload", http.StatusBadRequest)
		return
	}

	results, err := ext.HandleWebhook(r.Context(), payload)
	if err != nil {
		// Unknown job ids happen when retention already evicted the job or
		// the service replays very old events; report and move on.
		s.log.Warn("webhook rejected", "backend", backendName, "error", err)
		jsonError(w, err.Error(), errStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"backend":  backendName,
		"complete": results != nil,
	})
}
