// Package server provides the HTTP server for serve-delayed: static files
// with an index.html fallback, plus a /delay route for latency testing.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/wcrbrm/serve-delayed/internal/config"
	"github.com/wcrbrm/serve-delayed/internal/static"
	"github.com/wcrbrm/serve-delayed/internal/storage"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	resolver   *static.Resolver
	maxDelay   time.Duration
	recorder   storage.Recorder
	log        *logrus.Logger
}

// Route describes one registered route.
type Route struct {
	Method  string
	Pattern string
}

// New creates a new server from the configuration snapshot.
// recorder may be nil, in which case requests are only logged.
func New(cfg config.ServerConfig, logger *logrus.Logger, recorder storage.Recorder) *Server {
	s := &Server{
		resolver: static.NewResolver(cfg.WebRoot, cfg.Confine),
		maxDelay: cfg.MaxDelay,
		recorder: recorder,
		log:      logger,
	}

	r := chi.NewRouter()
	r.Use(s.middlewares()...)

	// The delay route is more specific, so chi tries it first.
	r.Get("/delay/{delay}/*", s.handleDelayed)
	r.Get("/*", s.handleIndex)
	s.router = r

	s.httpServer = &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // Disable for long delays
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// middlewares returns the chain applied to every request, outermost first.
func (s *Server) middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		s.accessLog,
		middleware.Recoverer,
		corsMiddleware,
		middleware.GetHead,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the configured address and serves until Shutdown.
// A bind failure is returned before any request is accepted.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. Each connection runs on its own goroutine.
func (s *Server) Serve(ln net.Listener) error {
	s.log.WithField("addr", ln.Addr().String()).Debug("listening")
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Routes lists the registered routes as chi walks its tree.
func (s *Server) Routes() ([]Route, error) {
	var routes []Route
	err := chi.Walk(s.router, func(method, pattern string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{Method: method, Pattern: pattern})
		return nil
	})
	return routes, err
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
