package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"tour_admin/internal/metrics"
	appmiddleware "tour_admin/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker reports whether the session store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server is the diagnostics endpoint of a builder shell session.
type Server struct {
	log    *slog.Logger
	e      *echo.Echo
	health HealthChecker
	host   string
	port   string
}

func New(log *slog.Logger, host, port string, health HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	s := &Server{
		log:    log,
		e:      e,
		health: health,
		host:   host,
		port:   port,
	}
	s.BuildRouters()

	return s
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.healthHandler)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
}

func (s *Server) healthHandler(c echo.Context) error {
	if err := s.health.HealthCheck(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Addr() string {
	if addr := s.e.ListenerAddr(); addr != nil {
		return addr.String()
	}
	return net.JoinHostPort(s.host, s.port)
}

// Listen binds the configured address. Once it returns, Start serves on the
// bound listener and Stop always releases it.
func (s *Server) Listen() error {
	const op = "http.Server.Listen"

	if s.e.Listener != nil {
		return nil
	}

	l, err := net.Listen("tcp", net.JoinHostPort(s.host, s.port))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.e.Listener = l

	return nil
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.Listen(); err != nil {
		return err
	}

	s.log.Info("diagnostics server started", slog.String("op", op), slog.String("addr", s.Addr()))

	if err := s.e.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefully: %w", op, err)
	}

	// Shutdown only closes listeners the server has started serving on
	if s.e.Listener != nil {
		if err := s.e.Listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("%s could not close listener: %w", op, err)
		}
	}

	return nil
}
