// Package server exposes the extraction strategies and the annotation
// renderer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tsawler/layoutlens"
	"github.com/tsawler/layoutlens/annotate"
	"github.com/tsawler/layoutlens/internal/config"
)

// Limits are the request limits that may change while the server runs.
type Limits struct {
	// MaxUploadBytes caps the size of an uploaded PDF (default: 10MB)
	MaxUploadBytes int64

	// CanvasWidth and CanvasHeight are the annotation canvas used when the
	// request does not choose one (default: 1200x1600)
	CanvasWidth  int
	CanvasHeight int

	// MaxCanvas bounds each requested canvas side (default: 10000, which
	// is also the most the renderer accepts)
	MaxCanvas int
}

// LimitsFromConfig extracts the runtime limits from a configuration.
func LimitsFromConfig(c *config.Config) Limits {
	return Limits{
		MaxUploadBytes: c.MaxUploadBytes(),
		CanvasWidth:    c.Annotate.CanvasWidth,
		CanvasHeight:   c.Annotate.CanvasHeight,
		MaxCanvas:      c.Annotate.MaxCanvas,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxUploadBytes <= 0 {
		l.MaxUploadBytes = 10 << 20
	}
	if l.CanvasWidth <= 0 {
		l.CanvasWidth = annotate.DefaultWidth
	}
	if l.CanvasHeight <= 0 {
		l.CanvasHeight = annotate.DefaultHeight
	}
	if l.MaxCanvas <= 0 || l.MaxCanvas > annotate.MaxCanvas {
		l.MaxCanvas = annotate.MaxCanvas
	}
	return l
}

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (default: 127.0.0.1:8000)
	Addr string

	// Registry resolves model IDs to strategies
	Registry *layoutlens.Registry

	// Renderer draws annotation images (default: annotate.NewRenderer(nil))
	Renderer *annotate.Renderer

	Limits Limits

	// Logger is the structured logger to use
	Logger *slog.Logger
}

// Server is the layoutlens HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *layoutlens.Registry
	renderer   *annotate.Renderer
	logger     *slog.Logger

	mu      sync.RWMutex
	limits  Limits
	running bool
}

// New creates a Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("server: registry is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8000"
	}
	if cfg.Renderer == nil {
		cfg.Renderer = annotate.NewRenderer(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		registry: cfg.Registry,
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
		limits:   cfg.Limits.withDefaults(),
	}

	mux := http.NewServeMux()
	for _, ep := range s.endpoints() {
		method, path, handler := ep.Route()
		mux.HandleFunc(method+" "+path, handler)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRequestLog(withCORS(mux)),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Limits returns the limits currently in force.
func (s *Server) Limits() Limits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits
}

// SetLimits replaces the runtime limits. Zero fields take their defaults.
func (s *Server) SetLimits(l Limits) {
	s.mu.Lock()
	s.limits = l.withDefaults()
	s.mu.Unlock()
}

// Start serves HTTP until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()
	defer s.setNotRunning()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
