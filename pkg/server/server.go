// Package server exposes the scraping client over a GitHub REST-compatible HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

// Scraper produces the records served by the API. *github.Client implements it.
type Scraper interface {
	User(ctx context.Context, username string) (*profile.User, error)
	Repositories(ctx context.Context, username string, opts profile.ListOptions) ([]*profile.Repository, error)
}

// Config holds listener settings.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// Server serves the REST-compatible endpoints.
type Server struct {
	router  *chi.Mux
	scraper Scraper
	logger  *slog.Logger
	config  Config
}

// New creates a Server backed by scraper.
func New(cfg Config, scraper Scraper, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	s := &Server{
		router:  chi.NewRouter(),
		scraper: scraper,
		logger:  logger,
		config:  cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(requestLogger(s.logger))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/users/{username}", s.handleUser)
	s.router.Get("/users/{username}/repos", s.handleRepos)
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody)
	})
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Start listens until ctx is done, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Listings fetch one page per repository, so responses can take a while.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "server starting", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.InfoContext(shutdownCtx, "server stopped gracefully")
	}
	return nil
}
