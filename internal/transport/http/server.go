package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	watchService "github.com/adhikareeprayush/TechCrunch-News-Bot/internal/modules/watch/service"
	"github.com/adhikareeprayush/TechCrunch-News-Bot/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server exposes the status endpoint and the poll loop start trigger
type Server struct {
	cfg     *config.Config
	watcher *watchService.Service
	logger  *slog.Logger
	srv     *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, watcher *watchService.Service) *Server {
	s := &Server{
		cfg:     cfg,
		watcher: watcher,
		logger:  slog.Default(),
	}

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler builds the route table wrapped in logging and panic recovery
// middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Poll loop start trigger
	mux.HandleFunc("POST /start", s.handleStart)

	// Health check endpoint
	mux.HandleFunc("GET /health", s.handleHealth)

	// Status endpoint, exact match so wrong-method requests to other
	// routes still get their 405
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	return handler
}

// Start starts the HTTP server and blocks until it is shut down
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	started := s.watcher.Start()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if started {
		w.Write([]byte(`{"message":"Bot started in the background"}`))
	} else {
		w.Write([]byte(`{"message":"Bot is already running"}`))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"TechCrunch News Bot is running"}`))
}
