// Package api serves the watch-mode HTTP endpoints: health, Prometheus
// metrics and read-only views of the run catalog.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/fitsdoc/internal/catalog"
	"git.home.luguber.info/inful/fitsdoc/internal/logfields"
)

// Catalog is the read side of the run catalog.
type Catalog interface {
	LatestRun(ctx context.Context) (catalog.Run, error)
	NeedsAttention(ctx context.Context) ([]catalog.FileRecord, error)
}

// Server represents the HTTP server.
type Server struct {
	Addr    string
	router  *chi.Mux
	server  *http.Server
	metrics http.Handler
	catalog Catalog
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithCatalog enables the /runs/latest and /attention endpoints.
func WithCatalog(c Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a server for addr.
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		Addr:   addr,
		router: chi.NewRouter(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(10 * time.Second))

	s.router.Get("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}
	if s.catalog != nil {
		s.router.Get("/runs/latest", s.handleLatestRun)
		s.router.Get("/attention", s.handleAttention)
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on Addr and serves in the background. It returns the bound
// address, which differs from Addr when the port is 0.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return "", err
	}
	go func() {
		if err := s.server.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", logfields.Error(err))
		}
	}()
	return ln.Addr().String(), nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug("Failed to write response", logfields.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, Response{Success: true, Data: map[string]string{"status": "healthy"}})
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.catalog.LatestRun(r.Context())
	switch {
	case stderrors.Is(err, catalog.ErrNoRuns):
		s.writeJSON(w, http.StatusNotFound, Response{Error: err.Error()})
	case err != nil:
		s.logger.Error("Failed to read latest run", logfields.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, Response{Error: "catalog unavailable"})
	default:
		s.writeJSON(w, http.StatusOK, Response{Success: true, Data: run})
	}
}

func (s *Server) handleAttention(w http.ResponseWriter, r *http.Request) {
	files, err := s.catalog.NeedsAttention(r.Context())
	if err != nil {
		s.logger.Error("Failed to read catalog", logfields.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, Response{Error: "catalog unavailable"})
		return
	}
	if files == nil {
		files = []catalog.FileRecord{}
	}
	s.writeJSON(w, http.StatusOK, Response{Success: true, Data: files})
}
