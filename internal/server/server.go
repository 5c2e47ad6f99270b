// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"time"

	"whisperwall/internal/cache"
	"whisperwall/internal/config"
	"whisperwall/internal/database"
	"whisperwall/internal/middleware"
	"whisperwall/internal/models"
	"whisperwall/internal/oauth"
	"whisperwall/internal/repository"
	"whisperwall/internal/service"
	"whisperwall/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	secretRepo     repository.SecretRepository
	replyRepo      repository.ReplyRepository
	sessions       *session.Manager
	google         oauth.Provider
	authService    *service.AuthService
	oauthService   *service.OAuthService
	secretService  *service.SecretService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	secretRepo := repository.NewSecretRepository(db)
	replyRepo := repository.NewReplyRepository(db)

	prom := middleware.InitMetrics("whisperwall-api")

	// Sessions live in Redis when it is reachable; otherwise they fall back
	// to process memory and do not survive a restart.
	var store session.Store
	if redisClient != nil {
		store = session.NewRedisStore(redisClient)
	} else {
		middleware.Logger.Warn("Redis unavailable, using in-memory session store")
		store = session.NewMemoryStore()
	}
	sessions := session.NewManager(store, userRepo, time.Duration(cfg.SessionTTLHours)*time.Hour)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		secretRepo:     secretRepo,
		replyRepo:      replyRepo,
		sessions:       sessions,
	}
	server.authService = service.NewAuthService(userRepo)
	server.oauthService = service.NewOAuthService(userRepo)
	server.secretService = service.NewSecretService(userRepo, secretRepo, replyRepo)

	if cfg.GoogleEnabled() {
		server.google = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Distributed tracing (before ContextMiddleware so the trace ID local is set)
	app.Use(middleware.TracingMiddleware())

	// Context middleware to propagate request ID, user ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/healthz", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Post("/logout", s.Logout)
	auth.Get("/google", s.GoogleStart)
	auth.Get("/google/callback", s.GoogleCallback)
	auth.Get("/me", middleware.SessionRequired(s.sessions), s.CurrentUser)

	secrets := api.Group("/secrets")
	secrets.Get("/", middleware.SessionOptional(s.sessions), s.ListSecrets)

	protected := secrets.Group("", middleware.SessionRequired(s.sessions))
	protected.Post("/", s.CreateSecret)
	protected.Post("/:id/replies", s.CreateReply)
	protected.Delete("/:id/replies/:replyId", s.DeleteReply)
	protected.Delete("/:id", s.DeleteSecret)
}

// MigrateLegacySecrets runs the one-time conversion of legacy plain-string
// secrets into secret rows. Safe to call on every startup; a clean database
// is a no-op.
func (s *Server) MigrateLegacySecrets(ctx context.Context) error {
	migrated, err := s.secretService.MigrateLegacySecrets(ctx)
	if err != nil {
		return fmt.Errorf("legacy secret migration failed: %w", err)
	}
	if migrated > 0 {
		middleware.Logger.InfoContext(ctx, "legacy secret migration complete", "secrets", migrated)
	}
	return nil
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Whisperwall API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fiberErr, ok := err.(*fiber.Error); ok {
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("Server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: sessions degrade to the in-memory store without it.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
