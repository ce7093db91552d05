package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/migeprof/stakeholder-mapping/docs"
	"github.com/migeprof/stakeholder-mapping/internal/api/handler"
	"github.com/migeprof/stakeholder-mapping/internal/api/middleware"
	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
)

// Dependencies are the services and backends the router wires into handlers.
// Mongo and Redis are optional and only used by the readiness probe.
type Dependencies struct {
	Sessions   ports.SessionManager
	Navigation ports.NavigationService
	Users      ports.UserService
	Audit      ports.AuditService
	JWTSecret  string
	Mongo      *mongo.Database
	Redis      *redis.Client
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	authHandler := handler.NewAuthHandler(deps.Sessions, deps.Navigation)
	navHandler := handler.NewNavigationHandler(deps.Navigation)
	userHandler := handler.NewUserHandler(deps.Users)
	auditHandler := handler.NewAuditHandler(deps.Audit)
	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Sessions)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	authed := e.Group("", authMiddleware)
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/session", authHandler.Session)
	authed.GET("/auth/permissions/:capability", authHandler.Permission)
	authed.GET("/navigation", navHandler.Get)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware)
	users := admin.Group("/users", middleware.RequirePermission(domain.CapManageUsers))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PATCH("/:id/status", userHandler.ToggleStatus)
	users.POST("/import", userHandler.Import, echomiddleware.BodyLimit("6M"))
	admin.GET("/audit", auditHandler.List, middleware.RequirePermission(domain.CapManageSystem))
	admin.GET("/audit/export", auditHandler.Export, middleware.RequirePermission(domain.CapExportData))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
