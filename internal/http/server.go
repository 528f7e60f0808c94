// Package http exposes task capture and suggestions over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskbrain/internal/assistant"
	"github.com/sandeepkv93/taskbrain/internal/logging"
	"github.com/sandeepkv93/taskbrain/internal/metrics"
	"github.com/sandeepkv93/taskbrain/internal/model"
)

// Service is what the handlers need from the assistant.
type Service interface {
	CreateTask(ctx context.Context, userID, text string) (assistant.CreatedTask, error)
	CreateBulk(ctx context.Context, userID string, texts []string) (assistant.BulkResult, error)
	Predict(text string) model.Category
	Suggestions(userID string) []model.Suggestion
	Completions(userID, partial string, limit int) []model.Completion
	Insights(userID string) model.Insights
	LoggedTasks(ctx context.Context, userID string) (int, error)
}

type Config struct {
	Host string
	Port int
}

type Server struct {
	echo    *echo.Echo
	service Service
	metrics *metrics.Recorder
	logger  *logging.Logger
	config  *Config
}

func NewServer(service Service, rec *metrics.Recorder, logger *logging.Logger, cfg *Config) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "127.0.0.1", Port: 8000}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		service: service,
		metrics: rec,
		logger:  logger.Named("http"),
		config:  cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLog)
	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		ctx := logging.WithRequestID(req.Context(), c.Response().Header().Get(echo.HeaderXRequestID))
		c.SetRequest(req.WithContext(ctx))

		err := next(c)
		if err != nil {
			c.Error(err)
		}
		duration := time.Since(start)
		status := c.Response().Status

		s.metrics.HTTPRequest(req.Method, c.Path(), strconv.Itoa(status), duration)
		s.logger.Info(ctx, "http request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/task", s.handleCreateTask)
	s.echo.POST("/tasks/bulk", s.handleCreateBulk)
	s.echo.GET("/predict", s.handlePredict)

	users := s.echo.Group("/users/:id")
	users.GET("/suggestions", s.handleSuggestions)
	users.GET("/insights", s.handleInsights)
	users.GET("/completions", s.handleCompletions)

	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := s.service.LoggedTasks(ctx, "")
	if err != nil {
		s.logger.Warn(ctx, "task log count failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", TasksLogged: n})
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text and user_id required")
	}

	created, err := s.service.CreateTask(c.Request().Context(), req.UserID, req.Text)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(http.StatusOK, TaskResponse{
		ExternalID:        created.ExternalID,
		PredictedCategory: created.Category,
	})
}

func (s *Server) handleCreateBulk(c echo.Context) error {
	var req BulkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Tasks) == 0 || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tasks array and user_id required")
	}

	res, err := s.service.CreateBulk(c.Request().Context(), req.UserID, req.Tasks)
	out := BulkResponse{CreatedTasks: make([]BulkTask, 0, len(res.Created)), Count: res.Count}
	for _, t := range res.Created {
		out.CreatedTasks = append(out.CreatedTasks, BulkTask{ExternalID: t.ExternalID, Text: t.Text, Category: t.Category})
	}
	if err != nil {
		if errors.Is(err, assistant.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		out.Error = err.Error()
		return c.JSON(statusFor(err), out)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handlePredict(c echo.Context) error {
	text := c.QueryParam("text")
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text query parameter required")
	}
	return c.JSON(http.StatusOK, PredictResponse{Text: text, Category: s.service.Predict(text)})
}

func (s *Server) handleSuggestions(c echo.Context) error {
	userID := c.Param("id")
	return c.JSON(http.StatusOK, SuggestionsResponse{UserID: userID, Suggestions: s.service.Suggestions(userID)})
}

func (s *Server) handleInsights(c echo.Context) error {
	return c.JSON(http.StatusOK, s.service.Insights(c.Param("id")))
}

func (s *Server) handleCompletions(c echo.Context) error {
	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	userID := c.Param("id")
	return c.JSON(http.StatusOK, CompletionsResponse{
		UserID:      userID,
		Completions: s.service.Completions(userID, c.QueryParam("q"), limit),
	})
}

func (s *Server) mapError(c echo.Context, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed", zap.Error(err))
	}
	return echo.NewHTTPError(status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, assistant.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrTracker):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
