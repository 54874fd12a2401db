package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
	"github.com/campus-labs/studysync-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	// Services
	authService driving.AuthService
	syncService driving.SyncService

	// Infrastructure
	taskQueue driven.TaskQueue
	db        Pinger // PostgreSQL health check
	redis     Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	AuthService driving.AuthService
	SyncService driving.SyncService
	TaskQueue   driven.TaskQueue
	DB          Pinger
	Redis       Pinger // can be nil
	Logger      *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg Config) *Server {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		router:      http.NewServeMux(),
		version:     cfg.Version,
		logger:      cfg.Logger.With("component", "http"),
		authService: cfg.AuthService,
		syncService: cfg.SyncService,
		taskQueue:   cfg.TaskQueue,
		db:          cfg.DB,
		redis:       cfg.Redis,
	}

	logging := NewLoggingMiddleware(s.logger)
	recovery := NewRecoveryMiddleware(s.logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      recovery.Handler(logging.Handler(s.router)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoint (public)
	s.router.HandleFunc("POST /api/v1/auth/token", s.handleMintToken)

	// Sync settings endpoints
	s.router.Handle("GET /api/v1/courses/{id}/sync-settings",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetSettings)))
	s.router.Handle("PUT /api/v1/courses/{id}/sync-settings",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSaveSettings)))
	s.router.Handle("DELETE /api/v1/courses/{id}/sync-settings",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteSettings)))

	// Sync run endpoints
	s.router.Handle("POST /api/v1/courses/{id}/sync",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleRequestSync)))
	s.router.Handle("GET /api/v1/courses/{id}/sync-progress",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetProgress)))

	// Task endpoints
	s.router.Handle("GET /api/v1/tasks/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetTask)))
	s.router.Handle("GET /api/v1/queue/stats",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleQueueStats)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
