// Package server provides the HTTP API for tokenscope.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tokenscope/internal/insight"
	"github.com/KaramelBytes/tokenscope/internal/metrics"
)

// Server provides HTTP endpoints for token analysis.
type Server struct {
	echo     *echo.Echo
	analyzer *insight.Analyzer
	logger   *zap.Logger
	config   *Config
	started  time.Time
}

// Identity is echoed in every successful analysis response.
type Identity struct {
	UserID     string
	Email      string
	RollNumber string
}

// Config holds HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	BodyLimit      string
	RequestTimeout time.Duration
	RateLimitRPS   float64 // 0 disables rate limiting
	RateLimitBurst int
	Limits         Limits
	Identity       Identity
	Version        string
}

// NewServer creates a new HTTP server.
func NewServer(analyzer *insight.Analyzer, logger *zap.Logger, cfg *Config) (*Server, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("analyzer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
		}
	}
	if cfg.Limits == (Limits{}) {
		cfg.Limits = DefaultLimits()
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "2M"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		analyzer: analyzer,
		logger:   logger,
		config:   cfg,
		started:  time.Now(),
	}
	e.HTTPErrorHandler = s.handleError

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.logRequests)
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeout(cfg.RequestTimeout))
	}

	s.registerRoutes()
	return s, nil
}

// logRequests logs and counts every request after the error handler has set the final status.
func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		duration := time.Since(start)
		status := c.Response().Status

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

		s.logger.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	if s.config.RateLimitRPS > 0 {
		v1.Use(newIPLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst).middleware(s.logger))
	}
	v1.GET("/analyze", s.handleOperationCode)
	v1.POST("/analyze", s.handleAnalyze)
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	IsSuccess bool   `json:"is_success"`
	Error     string `json:"error"`
}

// handleError maps validation and echo errors onto the ErrorResponse envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var ve *ValidationError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ve):
		code = http.StatusBadRequest
		msg = ve.Error()
	case errors.As(err, &he):
		code = he.Code
		msg = fmt.Sprint(he.Message)
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusServiceUnavailable
		msg = "request timed out"
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err), zap.Int("status", code))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{IsSuccess: false, Error: msg})
	}
	if err != nil {
		s.logger.Warn("write error response", zap.Error(err))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
