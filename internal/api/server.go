// Package api exposes the statement pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/statements/internal/pipeline"
)

const (
	defaultMaxUploadMB = 32
	requestTimeout     = 60 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	MaxUploadMB int64
	Logger      zerolog.Logger
}

// Server serves the statement API.
type Server struct {
	pipeline  *pipeline.Pipeline
	maxUpload int64
	log       zerolog.Logger
}

// New creates a Server around p.
func New(p *pipeline.Pipeline, opts Options) *Server {
	mb := opts.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return &Server{pipeline: p, maxUpload: mb << 20, log: opts.Logger}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/statements", s.processStatements)
		r.Post("/categorize", s.categorize)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
