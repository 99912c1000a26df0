// Package http provides the HTTP servers, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenpass/lumenpass/internal/config"
	"github.com/lumenpass/lumenpass/internal/metrics"
	visitorHTTP "github.com/lumenpass/lumenpass/internal/visitor/http"
	"github.com/lumenpass/lumenpass/internal/visitor/http/dto"
)

const (
	readinessTimeout = 2 * time.Second

	// apiWriteTimeout covers the longest request, a scan of MaxScanTimeoutSeconds.
	apiWriteTimeout = (dto.MaxScanTimeoutSeconds + 15) * time.Second
)

// newHTTPServer returns a server listening on host:port with the shared timeouts.
func newHTTPServer(host string, port int, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger

	// background work started by the router, stopped on Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		db:     db,
		logger: logger,
		server: newHTTPServer(host, port, apiWriteTimeout),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetupRouter builds the API routes and middleware chain.
// metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	cfg *config.Config,
	visitorHandler *visitorHTTP.VisitorHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(newRequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	registerChain := []gin.HandlerFunc{}
	if cfg.RateLimitEnabled {
		registerChain = append(registerChain, IPRateLimitMiddleware(
			s.ctx,
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}
	registerChain = append(registerChain, visitorHandler.RegisterHandler)

	visitors := v1.Group("/visitors")
	{
		visitors.POST("", registerChain...)
		visitors.GET("", visitorHandler.ListHandler)
		visitors.GET("/:id", visitorHandler.GetHandler)
		visitors.POST("/:id/checkout", visitorHandler.CheckOutHandler)
		visitors.GET("/:id/credential.png", visitorHandler.CredentialPNGHandler)
	}

	credentials := v1.Group("/credentials")
	{
		credentials.POST("/verify", visitorHandler.VerifyHandler)
		credentials.POST("/decode", visitorHandler.DecodeHandler)
	}

	v1.POST("/scans", visitorHandler.ScanHandler)

	s.router = router
}

// GetHandler returns the configured router.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router
	return listenAndServe(s.server, s.logger, "http")
}

// listenAndServe blocks until srv stops. A graceful shutdown is not an error.
func listenAndServe(srv *http.Server, logger *slog.Logger, name string) error {
	logger.Info("starting "+name+" server", slog.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s server: %w", name, err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server and stops background work.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.cancel()
	return s.server.Shutdown(ctx)
}

// healthHandler reports that the process is alive.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
