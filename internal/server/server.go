package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apisetup "github.com/LegalMindAI/Backend-V2/internal/api"
	"github.com/LegalMindAI/Backend-V2/internal/bootstrap"
	"github.com/LegalMindAI/Backend-V2/internal/config"
	"github.com/LegalMindAI/Backend-V2/internal/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	deps       *bootstrap.Dependencies
	config     *config.Config
	logger     *observability.Logger
}

// New creates a new Server instance
func New(cfg *config.Config, deps *bootstrap.Dependencies, logger *observability.Logger) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
		logger: logger,
	}
}

// Setup configures the HTTP router with middleware and routes
func (s *Server) Setup() {
	s.router = gin.New()

	// Configure CORS
	s.router.Use(cors.New(corsConfig(s.config.Services.WebAppURI)))
	s.router.Use(observability.Middleware(s.logger))

	// Register routes
	rootRouter := s.router.Group("/")
	api := apisetup.New(
		rootRouter,
		s.deps.AuthHandler,
		s.deps.ChatHandler,
		s.deps.ConversationHandler,
		s.deps.ShareHandler,
		s.deps.IngestHandler,
		s.deps.RateLimiter.Middleware(),
	)
	api.RegisterRoutes()
}

func corsConfig(webAppURI string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control"}
	cfg.ExposeHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After", "Content-Disposition"}

	// Credentials cannot be combined with a wildcard origin.
	if webAppURI == "" || webAppURI == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowCredentials = true
	cfg.AllowOrigins = []string{webAppURI}
	if os.Getenv("GO_ENV") != "production" {
		cfg.AllowOrigins = append(cfg.AllowOrigins, "http://localhost:3000")
	}
	return cfg
}

// Start begins listening for HTTP requests
func (s *Server) Start(ctx context.Context) error {
	if err := s.deps.Store.Ping(ctx); err != nil {
		return fmt.Errorf("database is unreachable: %w", err)
	}
	if s.deps.RedisClient.IsEnabled() {
		if err := s.deps.RedisClient.Ping(ctx); err != nil {
			// The rate limiter falls back to per-instance buckets.
			s.logger.WarnWithError(ctx, "redis is unreachable", err)
		}
	}

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Server.Port),
		Handler: s.router,
	}

	// Run the server in a goroutine so that it doesn't block
	go func() {
		s.logger.Info(ctx, fmt.Sprintf("Server starting on port %d", s.config.Server.Port))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(ctx, "server failed to start", err)
			os.Exit(1)
		}
	}()

	return nil
}

// WaitForShutdown blocks until a shutdown signal is received, then gracefully shuts down
func (s *Server) WaitForShutdown(ctx context.Context) error {
	quit := make(chan os.Signal, 1)
	// SIGKILL cannot be caught
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	s.logger.Info(ctx, "Shutting down server...")

	// Give in-flight requests 5 seconds to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.deps.Cleanup()

	s.logger.Info(ctx, "Server exited gracefully")
	return nil
}
