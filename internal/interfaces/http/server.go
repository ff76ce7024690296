// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/franky15/billed-portal/internal/application/port"
	"github.com/franky15/billed-portal/internal/application/service"
	"github.com/franky15/billed-portal/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SessionStore is the session surface the HTTP layer needs: bootstrap on
// login, lookup on every request, discard on logout.
type SessionStore interface {
	Put(ctx context.Context, sessionID string, user entity.SessionUser) error
	User(ctx context.Context, sessionID string) (*entity.SessionUser, error)
	Clear(ctx context.Context, sessionID string) error
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ExportPath   string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ExportPath:   "exports/review_queue.xlsx",
	}
}

// Server is the HTTP server adapter
type Server struct {
	config           ServerConfig
	httpServer       *http.Server
	router           *gin.Engine
	billsService     service.BillsService
	dashboardService service.DashboardService
	reviewService    service.ReviewService
	exportService    service.ExportService
	billRepo         port.BillRepository
	sessions         SessionStore
	logger           Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	billsService service.BillsService,
	dashboardService service.DashboardService,
	reviewService service.ReviewService,
	exportService service.ExportService,
	billRepo port.BillRepository,
	sessions SessionStore,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:           config,
		router:           router,
		billsService:     billsService,
		dashboardService: dashboardService,
		reviewService:    reviewService,
		exportService:    exportService,
		billRepo:         billRepo,
		sessions:         sessions,
		logger:           logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(
		s.billsService,
		s.dashboardService,
		s.reviewService,
		s.exportService,
		s.billRepo,
		s.sessions,
		s.config.ExportPath,
		s.logger,
	)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	// Session bootstrap
	s.router.POST("/api/login", handlers.Login)

	// Authenticated routes
	api := s.router.Group("/api")
	api.Use(handlers.SessionMiddleware())
	{
		api.GET("/bills", handlers.ListBills)
		api.POST("/bills", handlers.CreateBill)
		api.POST("/logout", handlers.Logout)
	}

	// Administrator routes
	admin := api.Group("/admin")
	admin.Use(handlers.AdminOnly())
	{
		admin.POST("/dashboard/:viewID", handlers.OpenDashboard)
		admin.DELETE("/dashboard/:viewID", handlers.CloseDashboard)
		admin.POST("/dashboard/:viewID/categories/:index", handlers.ToggleCategory)
		admin.POST("/dashboard/:viewID/tickets/:billID", handlers.ToggleTicket)
		admin.POST("/bills/:id/accept", handlers.AcceptBill)
		admin.POST("/bills/:id/refuse", handlers.RefuseBill)
		admin.POST("/export", handlers.ExportQueue)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
