package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/wikibinder/internal/assemble"
	"github.com/dgallion1/wikibinder/internal/config"
	"github.com/dgallion1/wikibinder/internal/export"
	"github.com/dgallion1/wikibinder/internal/settings"
	"github.com/dgallion1/wikibinder/internal/store"
	"github.com/dgallion1/wikibinder/internal/wiki"
)

// Server is the HTTP API server for wikibinder.
type Server struct {
	router   chi.Router
	store    *store.Store
	wiki     *wiki.Client
	settings *settings.File
	exporter *export.Exporter
	fetch    assemble.ArticleFetcher
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. fetch is the
// cache-backed article fetcher the exporter also uses, so preview and
// export always see the same content.
func NewServer(st *store.Store, wc *wiki.Client, sf *settings.File, ex *export.Exporter, fetch assemble.ArticleFetcher, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:    st,
		wiki:     wc,
		settings: sf,
		exporter: ex,
		fetch:    fetch,
		log:      log,
		cfg:      cfg,
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

		r.Get("/api/search", s.handleSearch)
		r.Get("/api/articles", s.handleArticle)
		r.Delete("/api/articles/cache", s.handleDeleteArticleCache)

		r.Get("/api/projects", s.handleListProjects)
		r.Post("/api/projects", s.handleCreateProject)
		r.Get("/api/projects/{projectID}", s.handleGetProject)
		r.Put("/api/projects/{projectID}", s.handleUpdateProject)
		r.Delete("/api/projects/{projectID}", s.handleDeleteProject)

		r.Get("/api/projects/{projectID}/export/{format}", s.handleExport)

		r.Get("/api/settings", s.handleGetSettings)
		r.Put("/api/settings", s.handleUpdateSettings)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
