package main

import (
	"notes-service/internal/handler"
	"notes-service/internal/middleware"
	"notes-service/internal/seed"
	"notes-service/internal/store"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting notes service...", cfg.LogConfig()...)

	// The development signing key must never survive into production. Flag
	// it loudly everywhere else.
	if cfg.UsingDefaultSigningKey() {
		if cfg.IsProduction() {
			log.Fatal("JWT_SIGNING_KEY is unset in production; refusing to start with the insecure development key")
		}
		log.Warn("JWT_SIGNING_KEY is unset; using the insecure development key",
			zap.String("environment", cfg.Server.Env))
	}

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Token codec: constructed once from configuration and injected; the
	// signing key is never re-read per request.
	jwtUtil := jwtutil.New(&jwtutil.Config{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	log.Info("JWT utility initialized", zap.Int("expiration_hours", cfg.JWT.ExpirationHours))

	// Stores and handlers
	db := database.GetDB()
	userStore := store.NewUserStore(db)
	tenantStore := store.NewTenantStore(db)
	noteStore := store.NewNoteStore(db)

	if cfg.Server.SeedDemoData && !cfg.IsProduction() {
		if err := seed.Demo(db, log); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	authHandler := handler.NewAuthHandler(userStore, jwtUtil)
	noteHandler := handler.NewNoteHandler(noteStore, cfg.Quota.FreeNoteLimit)
	tenantHandler := handler.NewTenantHandler(tenantStore, userStore)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - rate limited, for getting access to the API
	auth := e.Group("/auth")
	auth.Use(middleware.LoginRateLimit(&cfg.RateLimit))
	auth.POST("/login", authHandler.Login)

	// API routes - all require a valid session token
	api := e.Group("/api")
	api.Use(middleware.Auth(jwtUtil))

	api.GET("/me", authHandler.Me)

	// Notes - tenant-scoped CRUD
	notes := api.Group("/notes")
	notes.POST("", noteHandler.Create)
	notes.GET("", noteHandler.List)
	notes.GET("/:id", noteHandler.Get)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)

	// Tenant-level mutations - admin only, slug must match the claim
	tenants := api.Group("/tenants")
	tenants.POST("/:slug/upgrade", tenantHandler.Upgrade)
	tenants.POST("/:slug/invite", tenantHandler.Invite)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
