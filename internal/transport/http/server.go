package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"wordhunt/internal/app"
	"wordhunt/internal/config"
	"wordhunt/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	registry *app.Registry
	config   *config.Config
	logger   zerolog.Logger

	// roomCount mirrors the registry's room total; refreshed through the
	// registry's room-count hook on every create/destroy
	roomCount atomic.Int64
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, registry *app.Registry, logger zerolog.Logger) *Server {
	s := &Server{
		registry: registry,
		config:   cfg,
		logger:   logger.With().Str("component", "http").Logger(),
	}

	registry.SetOnRoomCount(func(count int) {
		s.roomCount.Store(int64(count))
		s.logger.Debug().Int("rooms", count).Msg("room count updated")
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/rooms/{code}/exists", s.handleRoomExists)
	r.Get("/ws", ws.NewHandler(registry, logger).ServeHTTP)

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// requestLogger logs each request with its status and duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("server shutting down")
	return s.server.Shutdown(ctx)
}
