// Package http provides the HTTP adapter for the invoice service.
// Handlers translate requests into InvoiceService calls and nothing more.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyjia/invoice-studio/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxBodyBytes caps request bodies; zero means DefaultMaxBodyBytes
	MaxBodyBytes int64
	// ShutdownTimeout bounds graceful shutdown; zero means ten seconds
	ShutdownTimeout time.Duration
}

// DefaultMaxBodyBytes is the request body cap when none is configured
const DefaultMaxBodyBytes = 2 << 20

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server exposes an InvoiceService over HTTP
type Server struct {
	config     ServerConfig
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
	httpServer *http.Server
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithHealthCheck makes GET /health report fn's verdict
func WithHealthCheck(fn HealthFunc) ServerOption {
	return func(s *Server) { s.handlers.health = fn }
}

// NewServer builds the router for svc. The listener is opened by Start.
func NewServer(config ServerConfig, svc service.InvoiceService, logger Logger, opts ...ServerOption) *Server {
	gin.SetMode(gin.ReleaseMode)

	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		config:   config,
		router:   gin.New(),
		handlers: NewHandlers(svc, logger),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Use(gin.Recovery(), s.requestMiddleware())
	s.setupRoutes()
	return s
}

// requestMiddleware tags each request with an id, caps its body and logs its outcome
func (s *Server) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)
		}

		c.Next()

		s.logger.Infow("HTTP request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"latency", time.Since(start).String(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		// Stateless rendering of a posted payload
		api.POST("/invoices/totals", h.ComputeTotals)
		api.POST("/invoices/render", h.RenderInvoice)
		api.POST("/invoices/preview", h.PreviewInvoice)
		api.POST("/invoices/export", h.ExportInvoice)

		// Stored invoices
		api.POST("/invoices", h.CreateInvoice)
		api.GET("/invoices", h.ListInvoices)
		api.GET("/invoices/:id", h.GetInvoice)
		api.PUT("/invoices/:id", h.UpdateInvoice)
		api.DELETE("/invoices/:id", h.DeleteInvoice)
		api.GET("/invoices/:id/pdf", h.GetInvoicePDF)
		api.GET("/invoices/:id/preview", h.GetInvoicePreview)
		api.GET("/invoices/:id/xlsx", h.GetInvoiceXLSX)

		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.UpdateSettings)
		api.GET("/summary", h.GetSummary)
	}
}

// Start serves until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.Address(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Infow("HTTP server listening", "address", s.httpServer.Addr)

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Errorw("HTTP server failed", "error", err)
		return fmt.Errorf("http server: %w", err)
	}
}

// Stop drains in-flight requests within the shutdown timeout
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorw("HTTP server shutdown incomplete", "error", err)
		return err
	}
	s.logger.Infow("HTTP server stopped", "address", s.httpServer.Addr)
	return nil
}

// Router returns the gin engine, mostly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns host:port
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}
