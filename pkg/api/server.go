package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/yourusername/zdengine/pkg/solver"
)

// ServerConfig holds the server configuration. Fields are populated from
// the environment by ConfigFromEnv, or set directly.
type ServerConfig struct {
	Host            string        `env:"ZD_HOST" envDefault:"localhost"`
	Port            int           `env:"ZD_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"ZD_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"ZD_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"ZD_IDLE_TIMEOUT" envDefault:"60s"`
	MaxQueryWorkers int           `env:"ZD_MAX_QUERY_WORKERS" envDefault:"100"`
	MaxSimWorkers   int           `env:"ZD_MAX_SIM_WORKERS" envDefault:"2"`
}

// ConfigFromEnv reads the ZD_* environment variables.
func ConfigFromEnv() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing server config: %w", err)
	}
	return cfg, nil
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string
}

// NewServer creates an API server answering from the given solved table.
func NewServer(s *solver.Solver, config ServerConfig, version string) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxQueryWorkers: config.MaxQueryWorkers,
		MaxSimWorkers:   config.MaxSimWorkers,
	})
	return &Server{
		config:   config,
		handlers: NewHandlers(s, version, pool),
		pool:     pool,
		version:  version,
	}
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handlers.Health)
	mux.HandleFunc("POST /api/action", s.handlers.Action)
	mux.HandleFunc("POST /api/winprob", s.handlers.WinProb)
	mux.HandleFunc("POST /api/simulate", s.handlers.Simulate)
	mux.HandleFunc("/api/ws", s.handlers.WebSocket)

	return corsMiddleware(loggingMiddleware(mux))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	log.Printf("Starting zdengine API server v%s on %s", s.version, addr)
	log.Printf("Endpoints:")
	log.Printf("  GET  /api/health   - Health check and table parameters")
	log.Printf("  POST /api/action   - Optimal roll/hold decision")
	log.Printf("  POST /api/winprob  - Exact win probability")
	log.Printf("  POST /api/simulate - Policy match simulation")
	log.Printf("  WS   /api/ws       - WebSocket queries")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and drains it on
// SIGINT/SIGTERM.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
