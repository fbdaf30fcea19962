// Package http serves the entry list and the entry form as server rendered
// pages, plus a small read-only JSON API.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"contas/internal/config"
	applog "contas/internal/log"
	"contas/internal/middleware/security"
	"contas/internal/middleware/trace"
	"contas/internal/store"
	"contas/internal/viewmodel"
	appweb "contas/web"
)

type Server struct {
	http.Server
	store     store.EntryStore
	list      *viewmodel.List
	templates *template.Template
	log       *applog.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. The server keeps one list view model registered on st until
// Shutdown.
func NewServer(cfg *config.Config, st store.EntryStore, logger *applog.Logger) (*Server, error) {
	if logger == nil {
		logger = applog.Default()
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		store:     st,
		list:      viewmodel.NewList(st, viewmodel.WithLogger(logger)),
		templates: t,
		log:       logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(applog.Middleware(logger))
	r.Use(trace.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleIndex)
	r.Route("/entries", func(r chi.Router) {
		r.Get("/new", s.handleNewEntry)
		r.Post("/new", s.handleCreateEntry)
		r.Get("/{id}", s.handleEditEntry)
		r.Post("/{id}", s.handleUpdateEntry)
		r.Post("/{id}/delete", s.handleDeleteEntry)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/entries", s.handleAPIEntries)
		r.Get("/entries/{id}", s.handleAPIEntry)
		r.Get("/summary", s.handleAPISummary)
	})

	s.Server = http.Server{
		Addr:           cfg.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
	return s, nil
}

// Shutdown unregisters the list from the store and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.list.Close()
	})
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.list.State().Loading {
		http.Error(w, "loading", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
