package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starman154/syllabus-scanner-server/internal/config"
	"github.com/starman154/syllabus-scanner-server/internal/extract"
	"github.com/starman154/syllabus-scanner-server/internal/pipeline"
	"github.com/starman154/syllabus-scanner-server/internal/store"
)

// Server is the HTTP API for the syllabus scanner.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        *store.Store
	claude       *extract.ClaudeClient
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, st *store.Store, claude *extract.ClaudeClient, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        st,
		claude:       claude,
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
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/syllabus", s.handleUpload)
		r.Get("/api/syllabus/{jobID}/status", s.handleJobStatus)
		r.Get("/api/stats/llm", s.handleLLMStats)

		r.Get("/api/courses", s.handleListCourses)
		r.Get("/api/courses/{courseID}", s.handleGetCourse)
		r.Delete("/api/courses/{courseID}", s.handleDeleteCourse)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
