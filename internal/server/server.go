// Package server provides the HTTP and WebSocket surface for robohand.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ayusman/robohand/internal/app"
	"github.com/ayusman/robohand/internal/metrics"
	"github.com/ayusman/robohand/internal/plugin"
	"github.com/ayusman/robohand/internal/server/api"
	"github.com/ayusman/robohand/internal/session"
	"github.com/ayusman/robohand/internal/store"
)

// CaptureStatus reports the local capture loop, when one runs.
type CaptureStatus interface {
	Running() bool
	IsEnabled() bool
	Last() session.Output
}

// Config holds the server configuration. Optional parts left nil disable
// their routes.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Plugins    *plugin.Manager
	Session    session.Config
	Dispatcher *app.Dispatcher
	Hub        *Hub
	Metrics    *metrics.Metrics
	Capture    CaptureStatus
	Log        zerolog.Logger
}

// Server represents the HTTP server for the robohand application.
type Server struct {
	config Config
	router *mux.Router
	start  time.Time
	http   *http.Server
	ingest *IngestHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		start:  time.Now(),
		ingest: NewIngestHandler(config.Session, config.Dispatcher, config.Metrics, config.Log),
	}
	s.http = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.config.Metrics.Handler()).Methods(http.MethodGet)

	api.NewCommandHandler().Register(r)

	if s.config.Store != nil {
		api.NewSessionHandler(s.config.Store).Register(r)
		api.NewBindingHandler(s.config.Store, s.config.Plugins).Register(r)
	}
	if s.config.Plugins != nil {
		api.NewPluginHandler(s.config.Plugins).Register(r)
	}
	if s.config.Capture != nil {
		r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	}

	r.Handle("/ws/session", s.ingest)
	if s.config.Hub != nil {
		r.Handle("/ws/status", s.config.Hub)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type statusResponse struct {
	Running bool           `json:"running"`
	Enabled bool           `json:"enabled"`
	Last    session.Output `json:"last"`
}

// handleStatus handles GET /api/status for the local capture loop.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	c := s.config.Capture
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		Running: c.Running(),
		Enabled: c.IsEnabled(),
		Last:    c.Last(),
	})
}

// ListenAndServe starts the HTTP server on the given address and blocks
// until it stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.config.Log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, then
// disconnects ingest sockets so their sessions are ended before the
// dispatcher closes.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if cerr := s.ingest.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
