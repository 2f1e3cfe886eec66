// Package server exposes the scoring engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abhisek/readlevel/internal/metrics"
	"github.com/abhisek/readlevel/internal/scoring"
	"github.com/abhisek/readlevel/internal/store"
	"github.com/abhisek/readlevel/internal/util"
)

// Server accepts reading attempts and returns their scores.
type Server struct {
	e      *echo.Echo
	engine *scoring.Engine

	// optional collaborators
	results   store.ResultRepo
	collector *metrics.Collector
	log       *slog.Logger

	// identity of this instance when running several side by side
	serviceName string
	serviceID   string
	serviceHost string
	servicePort int
}

// New builds a Server around engine.
func New(engine *scoring.Engine, options ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New("server: nil engine")
	}
	s := &Server{
		engine:      engine,
		log:         slog.Default(),
		serviceName: util.GenerateName(),
		serviceID:   util.GenerateID(),
		serviceHost: "0.0.0.0",
		servicePort: 1330,
	}
	if err := s.setOptions(options...); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s.e = echo.New()
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Use(middleware.Recover())
	s.e.HTTPErrorHandler = s.errorHandler

	s.e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":      "ok",
			"serviceName": s.serviceName,
			"serviceID":   s.serviceID,
		})
	})
	s.e.GET("/metrics", s.handleMetrics)

	v1 := s.e.Group("/v1")
	v1.POST("/attempts", s.handleScore)
	v1.GET("/attempts/:id", s.handleGetResult)
	v1.GET("/tunables", s.handleTunables)

	return s, nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.serviceHost, s.servicePort)
}

// Run serves until ctx is cancelled, then shuts down gracefully within 10s.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("server: listening", "addr", s.Addr(), "name", s.serviceName, "id", s.serviceID)
		if err := s.e.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info("server: stopped")
	return nil
}

// PrintConfig writes the instance identity to stdout.
func (s *Server) PrintConfig() {
	fmt.Println("\n\treadlevel service configuration")
	fmt.Println("\t------------------------------")
	fmt.Println("\tservice name:\t", s.serviceName)
	fmt.Println("\tservice ID:\t", s.serviceID)
	fmt.Println("\tservice host:\t", s.serviceHost)
	fmt.Println("\tservice port:\t", s.servicePort)
	fmt.Println("\tpersistence:\t", s.results != nil)
	fmt.Println()
}
