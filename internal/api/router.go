package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/todo-notify/todo-api/internal/api/handler"
	"github.com/todo-notify/todo-api/internal/api/middleware"
	"github.com/todo-notify/todo-api/internal/core/ports"
	_ "github.com/todo-notify/todo-api/internal/docs"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Log        zerolog.Logger
	Production bool
	Version    string

	Guard ports.AccessGuard
	Auth  ports.AuthService
	Todos ports.TodoService
	Users ports.UserService

	ClientURL    string
	AdminEmails  []string
	HealthChecks map[string]handler.Check

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Production)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "todo_api",
		Registerer: registerer,
	}))

	// --- Handlers ---
	healthHandler := handler.NewHealthHandler(deps.Version, deps.HealthChecks, deps.Production)
	authHandler := handler.NewAuthHandler(deps.Auth, deps.ClientURL, deps.Log)
	todoHandler := handler.NewTodoHandler(deps.Todos)
	userHandler := handler.NewUserHandler(deps.Users)
	notificationHandler := handler.NewNotificationHandler(deps.Users)

	requireAuth := middleware.Auth(deps.Guard)

	// --- Service root, probes, metrics, docs (no auth required) ---
	e.GET("/", healthHandler.Index)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)
	auth.POST("/google/android", authHandler.Android)
	auth.GET("/me", authHandler.Me, requireAuth)
	auth.POST("/logout", authHandler.Logout, requireAuth)

	// --- Todo routes ---
	todos := api.Group("/todos", requireAuth)
	todos.GET("", todoHandler.List)
	todos.POST("", todoHandler.Create)
	todos.GET("/:id", todoHandler.Get)
	todos.PUT("/:id", todoHandler.Update)
	todos.DELETE("/:id", todoHandler.Delete)

	// --- User routes ---
	users := api.Group("/users", requireAuth)
	users.POST("/fcm-token", userHandler.RegisterFCMToken)

	// --- Admin notification routes ---
	notifications := api.Group("/notifications", requireAuth, middleware.AdminOnly(deps.AdminEmails...))
	notifications.POST("/send-all", notificationHandler.SendAll)
	notifications.POST("/send-user", notificationHandler.SendUser)
	notifications.GET("/users", notificationHandler.Users)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
