// Package server hosts the HTTP variant of the optimizer.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/advisor"
	"github.com/pantheonai/stackr/internal/telemetry"
)

// Processor runs one orchestration cycle. Satisfied by *advisor.Orchestrator.
type Processor interface {
	Process(ctx context.Context, req advisor.Request) (advisor.Result, error)
}

// OptimizeRequest is the single endpoint's input.
type OptimizeRequest struct {
	UserID string `json:"user_id,omitempty"`
	Goal   string `json:"goal"`
}

// OptimizeResponse mirrors the service contract: the plan plus the two
// scores. Review notes stay CLI-only.
type OptimizeResponse struct {
	Plan             advisor.Plan `json:"plan"`
	ROIEstimate      float64      `json:"roi_estimate"`
	ConsistencyScore float64      `json:"consistency_score"`
}

// Server wires echo around the orchestrator.
type Server struct {
	cfg       *config.Config
	proc      Processor
	telemetry *telemetry.Telemetry
	logger    *log.Logger
	echo      *echo.Echo
}

// New builds the server and registers routes.
func New(cfg *config.Config, proc Processor, tele *telemetry.Telemetry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	s := &Server{cfg: cfg, proc: proc, telemetry: tele, logger: logger, echo: e}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(tele.Handler()))
	e.POST("/api/optimize", s.handleOptimize)
	return s
}

func (s *Server) handleOptimize(c echo.Context) error {
	var req OptimizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := s.proc.Process(c.Request().Context(), advisor.Request{
		UserID:     req.UserID,
		Goal:       req.Goal,
		SkipReview: true,
	})
	if err != nil {
		if errors.Is(err, advisor.ErrEmptyGoal) {
			return echo.NewHTTPError(http.StatusBadRequest, "goal must not be empty")
		}
		return err
	}

	return c.JSON(http.StatusOK, OptimizeResponse{
		Plan:             res.Plan,
		ROIEstimate:      res.ROIEstimate,
		ConsistencyScore: res.ConsistencyScore,
	})
}

// Handler exposes the underlying mux for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run blocks serving the configured address.
func (s *Server) Run() error {
	addr := s.cfg.Server.Address
	if addr == "" {
		addr = ":8080"
	}
	s.logger.Printf("listening on %s", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error { return s.echo.Shutdown(ctx) }
