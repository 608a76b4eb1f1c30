// Package api provides the HTTP/JSON surface of the revisor service.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/metadatalab/revisor/internal/config"
	"github.com/metadatalab/revisor/internal/editor"
)

// Server manages the HTTP server lifecycle around the editor service.
type Server struct {
	editor *editor.Service
	logger *zap.Logger
	http   *http.Server
	addr   string

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates the HTTP server with its routes registered.
func NewServer(cfg config.ServerConfig, svc *editor.Service, logger *zap.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("editor service cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		editor: svc,
		logger: logger,
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/preview", s.handlePreview)
	mux.HandleFunc("POST /api/update", s.handleUpdate)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleJob)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.http = &http.Server{
		Handler:      mux,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	return s, nil
}

// Handler exposes the routed handler, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Addr reports the bound listener address, nil until Start has bound it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the listener and serves requests until Shutdown.
// The context becomes the base context of every request.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.http.BaseContext = func(net.Listener) context.Context { return ctx }
	s.logger.Info("http server listening", zap.String("addr", listener.Addr().String()))

	if err := s.http.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests; when the context expires first, the
// remaining connections are closed forcibly.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	if err := s.http.Shutdown(ctx); err != nil {
		_ = s.http.Close()
		return fmt.Errorf("graceful shutdown incomplete, forced close: %w", err)
	}
	return nil
}
