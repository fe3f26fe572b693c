package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/shohag/countboard/internal/config"
	"github.com/shohag/countboard/internal/storage"
)

type Server struct {
	cfg    config.ServerConfig
	store  storage.Storage
	router *chi.Mux
	log    zerolog.Logger
	http   *http.Server
}

func NewServer(cfg config.ServerConfig, store storage.Storage, log zerolog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   log,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware(s.log))
	r.Use(CORSMiddleware(s.cfg.CORSOrigins))

	counterHandler := NewCounterHandler(s.store)
	msgHandler := NewMessageHandler(s.store)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health)
		r.Post("/health", Health)

		r.Get("/counter", counterHandler.Get)
		r.Post("/counter", counterHandler.Set)
		r.Post("/counter/increment", counterHandler.Increment)
		r.Post("/counter/decrement", counterHandler.Decrement)
		r.Post("/counter/reset", counterHandler.Reset)

		r.Get("/messages", msgHandler.List)
		r.Post("/messages", msgHandler.Create)
		r.Delete("/messages", msgHandler.DeleteAll)
		r.Delete("/messages/{id}", msgHandler.Delete)
	})

	return r
}

// MountPage registers browser page routes under path. An empty or "/" path mounts them at the root.
func (s *Server) MountPage(path string, register func(chi.Router)) {
	if path == "" || path == "/" {
		register(s.router)
		return
	}
	s.router.Route(path, register)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.log.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(timeout time.Duration) error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
