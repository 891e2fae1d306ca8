// Package api exposes the board document over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"task-board/internal/model"
	"task-board/internal/service"
)

const (
	msgReadFailed     = "failed to read data"
	msgInternal       = "internal server error"
	msgInvalidRequest = "invalid request body"
)

// Store is the backend the server fronts.
type Store interface {
	Load(ctx context.Context) (model.Document, error)
	Dispatch(ctx context.Context, action model.Action, payload json.RawMessage) (model.Document, error)
	Driver() string
}

// Server serves GET/POST /api/data plus health and metrics endpoints.
type Server struct {
	echo  *echo.Echo
	store Store
	log   *zap.Logger
	addr  string
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Driver string `json:"driver"`
}

func NewServer(store Store, log *zap.Logger, addr string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			log.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{echo: e, store: store, log: log, addr: addr}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.GET("/api/data", s.handleLoad)
	s.echo.POST("/api/data", s.handleDispatch)
}

// ServeHTTP lets the server be mounted or tested without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Driver: s.store.Driver()})
}

func (s *Server) handleLoad(c echo.Context) error {
	doc, err := s.store.Load(c.Request().Context())
	if err != nil {
		s.log.Error("load document", zap.Error(err))
		return writeErr(c, http.StatusInternalServerError, msgReadFailed)
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *Server) handleDispatch(c echo.Context) error {
	var req model.Request
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		s.log.Warn("invalid dispatch request", zap.Error(err))
		return writeErr(c, http.StatusBadRequest, msgInvalidRequest)
	}

	doc, err := s.store.Dispatch(c.Request().Context(), req.Action, req.Payload)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, doc)
	case service.IsRejection(err):
		return writeErr(c, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("dispatch", zap.String("action", string(req.Action)), zap.Error(err))
		return writeErr(c, http.StatusInternalServerError, msgInternal)
	}
}

func writeErr(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Error: msg})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting http server", zap.String("addr", s.addr))
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down http server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
