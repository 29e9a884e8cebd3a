package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentbridge/platform-api/internal/api/handler"
	"github.com/talentbridge/platform-api/internal/api/middleware"
	"github.com/talentbridge/platform-api/internal/auth"
	"github.com/talentbridge/platform-api/internal/core/service"
	"github.com/talentbridge/platform-api/internal/infrastructure/config"
	mongodb "github.com/talentbridge/platform-api/internal/infrastructure/db/mongo"
	redisdb "github.com/talentbridge/platform-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes
// registered and the request gate installed. The audit sink is optional;
// passing nil disables the audit trail but never auth itself.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, audit handler.AuditSink) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("talent_platform"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	codec := auth.NewTokenCodec(cfg.JWTSecret)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)
	authService := service.NewAuthService(userRepo, codec, limiter, cfg.SessionTTL, log)
	authHandler := handler.NewAuthHandler(authService, audit, cfg.IsProduction())
	dashboardHandler := handler.NewDashboardHandler(userRepo)

	// --- Request gate: authenticates every protected path ---
	e.Use(middleware.Gate(middleware.GateConfig{
		Codec:         codec,
		Users:         userRepo,
		Audit:         audit,
		SecureCookies: cfg.IsProduction(),
		Log:           log,
	}))

	// --- Auth routes (public) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify", authHandler.Verify)

	// --- Role-gated dashboard APIs (the gate enforces the role matrix) ---
	e.GET("/api/admin/summary", dashboardHandler.AdminSummary)
	e.GET("/api/admin/users", dashboardHandler.Users)
	e.GET("/api/client/summary", dashboardHandler.ClientSummary)
	e.GET("/api/developer/summary", dashboardHandler.DeveloperSummary)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
