package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	httpHandlers "github.com/noruno/platform/internal/adapters/http"
	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/infrastructure/config"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/infrastructure/metrics"

	_ "github.com/noruno/platform/docs"
)

// HealthChecker reports whether the storage backend is usable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	metrics *metrics.Metrics
	tokens  *services.TokenService
	health  HealthChecker
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. health may be nil when the backend has
// no connection to check.
func New(cfg *config.Config, app *services.App, tokens *services.TokenService, m *metrics.Metrics, health HealthChecker, appLogger *logger.Logger) *Server {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	s := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger.WithComponent("http"),
		metrics: m,
		tokens:  tokens,
		health:  health,
	}

	s.setupMiddleware()
	s.setupRoutes(
		httpHandlers.NewTaskHandler(app.Tasks, app.Groups, s.logger),
		httpHandlers.NewMemoHandler(app.Memos, app.Folders, s.logger),
		httpHandlers.NewReadingHandler(app.Reading, s.logger),
		httpHandlers.NewCalendarHandler(app.Calendar, s.logger),
		httpHandlers.NewSettingsHandler(app.Settings, app.Notifications, s.logger),
	)

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			log := s.logger.WithRequestID(values.RequestID)
			if values.Error != nil {
				log.WithError(values.Error).Warnw("HTTP request failed",
					"method", values.Method,
					"uri", values.URI,
					"status", values.Status,
				)
				return nil
			}
			log.LogHTTPRequest(values.Method, values.URI, values.UserAgent, values.RemoteIP,
				values.Status, float64(values.Latency.Nanoseconds())/1000000)
			return nil
		},
	}))

	if s.config.Metrics.Enabled {
		s.echo.Use(s.metricsMiddleware())
	}

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))

	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(s.config.Security.RateLimitRequests),
					Burst:     s.config.Security.RateLimitRequests,
					ExpiresIn: s.config.Security.RateLimitWindow,
				},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, httpHandlers.ErrorResponse{Error: "rate limit exceeded"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.JSON(http.StatusTooManyRequests, httpHandlers.ErrorResponse{Error: "rate limit exceeded"})
			},
		}))
	}

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(
	taskHandler *httpHandlers.TaskHandler,
	memoHandler *httpHandlers.MemoHandler,
	readingHandler *httpHandlers.ReadingHandler,
	calendarHandler *httpHandlers.CalendarHandler,
	settingsHandler *httpHandlers.SettingsHandler,
) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)
	if s.config.Metrics.Enabled {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	v1 := s.echo.Group("/api/v1")
	if s.tokens != nil && s.tokens.Enabled() {
		v1.Use(s.authMiddleware())
	}

	tasks := v1.Group("/tasks")
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	tasks.POST("/:id/complete", taskHandler.CompleteTask)
	tasks.POST("/:id/subtasks", taskHandler.AddSubtask)
	tasks.PUT("/:id/subtasks/:subtaskId", taskHandler.UpdateSubtask)
	tasks.DELETE("/:id/subtasks/:subtaskId", taskHandler.DeleteSubtask)
	tasks.POST("/:id/subtasks/:subtaskId/toggle", taskHandler.ToggleSubtask)

	groups := v1.Group("/groups")
	groups.GET("", taskHandler.ListGroups)
	groups.POST("", taskHandler.CreateGroup)
	groups.DELETE("/:name", taskHandler.DeleteGroup)

	memos := v1.Group("/memos")
	memos.GET("", memoHandler.ListMemos)
	memos.POST("", memoHandler.CreateMemo)
	memos.GET("/search", memoHandler.SearchMemos)
	memos.GET("/tags", memoHandler.GetAllTags)
	memos.GET("/:id", memoHandler.GetMemo)
	memos.PUT("/:id", memoHandler.UpdateMemo)
	memos.DELETE("/:id", memoHandler.DeleteMemo)

	folders := v1.Group("/folders")
	folders.GET("", memoHandler.ListFolders)
	folders.POST("", memoHandler.CreateFolder)
	folders.PUT("/:id", memoHandler.UpdateFolder)
	folders.DELETE("/:id", memoHandler.DeleteFolder)

	books := v1.Group("/books")
	books.GET("", readingHandler.ListBooks)
	books.POST("", readingHandler.CreateBook)
	books.PUT("/:id", readingHandler.UpdateBook)
	books.DELETE("/:id", readingHandler.DeleteBook)
	books.POST("/:id/notes", readingHandler.AddNote)
	books.PUT("/:id/notes/:noteId", readingHandler.UpdateNote)
	books.DELETE("/:id/notes/:noteId", readingHandler.DeleteNote)
	books.POST("/:id/sessions", readingHandler.AddSession)
	books.PUT("/:id/sessions/:sessionId", readingHandler.UpdateSession)
	books.DELETE("/:id/sessions/:sessionId", readingHandler.DeleteSession)

	events := v1.Group("/events")
	events.GET("", calendarHandler.ListEvents)
	events.POST("", calendarHandler.CreateEvent)
	events.PUT("/:id", calendarHandler.UpdateEvent)
	events.DELETE("/:id", calendarHandler.DeleteEvent)

	v1.GET("/settings/mail", settingsHandler.GetMailSettings)
	v1.PUT("/settings/mail", settingsHandler.SaveMailSettings)
	v1.POST("/notifications/test-email", settingsHandler.SendTestEmail)
	v1.POST("/notifications/check", settingsHandler.CheckNotifications)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.config.App.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.health != nil {
		if err := s.health.HealthCheck(c.Request().Context()); err != nil {
			s.logger.Warnw("Readiness check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "storage_not_ready",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.config.Server.GetAddr(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	s.logger.Infow("Starting server", "address", srv.Addr)

	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  httpHandlers.ErrorResponse
		)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg.Error = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else {
			code = httpHandlers.StatusFor(err)
			msg.Error = err.Error()
			if code == http.StatusInternalServerError {
				msg.Error = http.StatusText(code)
				msg.Details = err.Error()
			}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
