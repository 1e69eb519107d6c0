package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/extractd/internal/extractor"
)

// handleExtract accepts a multipart upload and hands it to the selected
// backend. Sync backends answer 200 with the result set; async backends
// answer 202 with a job id and poll URLs.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	backendName := r.FormValue("backend")
	if backendName == "" {
		jsonError(w, "backend is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	// Optional backend-specific options as a JSON object. Unrecognized keys
	// are ignored by the backend, so no validation happens here.
	var opts extractor.Options
	if raw := r.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			jsonError(w, "options must be a JSON object: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	ext, err := s.reg.Resolve(backendName)
	if err != nil {
		jsonError(w, err.Error(), errStatus(err))
		return
	}

	src := extractor.Source{
		Data: data,
		Name: sanitizeFilename(header.Filename),
	}

	start := time.Now()
	sub, err := ext.Read(r.Context(), src, opts)
	s.stats.Record(backendName, time.Since(start))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if sub.Completed() {
		json.NewEncoder(w).Encode(map[string]any{
			"backend": backendName,
			"results": sub.Results,
		})
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"backend":    backendName,
		"job_id":     sub.JobID,
		"status_url": fmt.Sprintf("/api/jobs/%s/%s/status", backendName, sub.JobID),
		"result_url": fmt.Sprintf("/api/jobs/%s/%s/result", backendName, sub.JobID),
	})
}

// handleListBackends lists every registered identifier with its descriptor,
// or the reason it cannot be constructed in this deployment.
func (s *Server) handleListBackends(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name       string                `json:"name"`
		Available  bool                  `json:"available"`
		Descriptor *extractor.Descriptor `json:"descriptor,omitempty"`
		Error      string                `json:"error,omitempty"`
	}

	var entries []entry
	for _, name := range s.reg.Names() {
		ext, err := s.reg.Resolve(name)
		if err != nil {
			entries = append(entries, entry{Name: name, Error: err.Error()})
			continue
		}
		d := ext.Describe()
		entries = append(entries, entry{Name: name, Available: true, Descriptor: &d})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"backends": entries})
}

func (s *Server) handleExtractStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"stats": s.stats.Snapshot()})
}

// errStatus maps the contract error taxonomy to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, extractor.ErrUnknownBackend):
		return http.StatusNotFound
	case errors.Is(err, extractor.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, extractor.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, extractor.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, extractor.ErrUnsupportedOperation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
