package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/extractd/internal/config"
	"github.com/dgallion1/extractd/internal/extractor"
	"github.com/dgallion1/extractd/internal/registry"
)

// Server is the HTTP surface over the extraction registry: it submits
// documents, answers job polls and routes remote webhook callbacks to the
// owning backend.
type Server struct {
	router chi.Router
	reg    *registry.Registry
	stats  *extractor.Stats
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(reg *registry.Registry, stats *extractor.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		reg:   reg,
		stats: stats,
		log:   log,
		cfg:   cfg,
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

	// Public endpoints. Webhooks arrive from remote services that do not
	// carry our bearer token; payload authenticity is the remote service's
	// concern.
	r.Get("/health", s.handleHealth)
	r.Post("/api/webhooks/{backend}", s.handleWebhook)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/backends", s.handleListBackends)
		r.Post("/api/extract", s.handleExtract)
		r.Get("/api/jobs/{backend}/{jobID}/status", s.handleJobStatus)
		r.Get("/api/jobs/{backend}/{jobID}/result", s.handleJobResult)
		r.Get("/api/stats/extract", s.handleExtractStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
