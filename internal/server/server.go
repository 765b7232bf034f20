// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "epicfails/docs" // swagger docs
	"epicfails/internal/bootstrap"
	"epicfails/internal/cache"
	"epicfails/internal/config"
	"epicfails/internal/featureflags"
	"epicfails/internal/mail"
	"epicfails/internal/middleware"
	"epicfails/internal/models"
	"epicfails/internal/notifications"
	"epicfails/internal/photos"
	"epicfails/internal/repository"
	"epicfails/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          *repository.Store
	runtime        *bootstrap.Runtime
	redis          *redis.Client
	cache          *cache.Cache
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	wireOnce       sync.Once
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager

	engagementService *service.EngagementService
	commentService    *service.CommentService
	postService       *service.PostService
	statsService      *service.StatsService
	duelService       *service.DuelService
	reportService     *service.ReportService
	userService       *service.UserService
	photoService      *service.PhotoService
}

// Deps carries already-initialized dependencies for NewServerWithDeps.
// Redis, Mailer and Photos are optional.
type Deps struct {
	Store  *repository.Store
	Redis  *redis.Client
	Mailer mail.Sender
	Photos photos.Store
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rt, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := bootstrap.EnsureDevUser(ctx, cfg, rt.Store); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("dev user bootstrap failed: %w", err)
	}

	deps := Deps{
		Store:  rt.Store,
		Redis:  cache.InitRedis(cfg.RedisURL),
		Mailer: mail.NewSender(cfg),
	}

	if cfg.CloudinaryEnabled() {
		cld, err := photos.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("cloudinary setup failed: %w", err)
		}
		deps.Photos = cld
	} else {
		middleware.Logger.Warn("Cloudinary credentials missing, photo uploads disabled")
	}

	server, err := NewServerWithDeps(cfg, deps)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	server.runtime = rt
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the store and Redis.
func NewServerWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.LogSender{}
	}

	server := &Server{
		config:         cfg,
		store:          deps.Store,
		redis:          deps.Redis,
		cache:          cache.New(deps.Redis),
		promMiddleware: middleware.InitMetrics("epicfails-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		notifier:       notifications.NewNotifier(deps.Redis),
		hub:            notifications.NewHub(),
	}

	server.engagementService = service.NewEngagementService(server.store, server.notifier)
	server.commentService = service.NewCommentService(server.store, server.notifier)
	server.postService = service.NewPostService(server.store, server.cache, server.featureFlags, server.notifier)
	server.statsService = service.NewStatsService(server.store)
	server.duelService = service.NewDuelService(server.store, server.cache, cfg.PodiumCacheTTL(), server.notifier)
	server.reportService = service.NewReportService(server.store, mailer, cfg.AdminEmail)
	server.userService = service.NewUserService(server.store, server.cache)
	server.photoService = service.NewPhotoService(deps.Photos)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.StructuredLogger())

	// CORS before anything that can short-circuit so error responses keep the headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		middleware.RegisterMetricsEndpoint(app, s.promMiddleware)
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Public browse routes
	publicPosts := api.Group("/posts")
	publicPosts.Get("/", s.ListPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	api.Get("/duels/podium/:category", s.GetPodium)

	// Live engagement feed. Registered ahead of the protected group so its
	// header-only auth does not run first.
	api.Get("/ws/feed", s.FeedAuthRequired(), s.WebSocketUpgrade, s.FeedHandler())

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/like", middleware.RateLimit(s.redis, 60, time.Minute, "toggle"), s.ToggleLike)
	posts.Post("/:id/bookmark", middleware.RateLimit(s.redis, 60, time.Minute, "toggle"), s.ToggleBookmark)
	posts.Post("/:id/comments", middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Delete("/:id", s.DeletePost)

	protected.Delete("/comments/:id", s.DeleteComment)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Get("/me/stats", s.GetMyStats)
	users.Get("/me/feature-flags", s.GetMyFeatureFlags)
	users.Post("/me/guidelines", s.AcceptGuidelines)

	protected.Post("/duels", middleware.RateLimit(s.redis, 30, time.Minute, "create_duel"), s.CreateDuel)
	protected.Post("/reports", middleware.RateLimit(s.redis, 5, time.Hour, "report"), s.ReportPost)
	protected.Post("/photos/upload/:photoType",
		middleware.RateLimit(s.redis, 10, time.Minute, "photo_upload"), s.UploadPhoto)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the store can serve requests. Redis is optional: its
// absence degrades caching and fan-out but does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"time": time.Now(),
	})
}

// newApp builds the Fiber app with the full middleware chain and routes.
func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "EpicFails API",
		BodyLimit: service.MaxPhotoBytes + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.wireHub()
	return app
}

// wireHub connects the notifier to the feed hub once per server.
func (s *Server) wireHub() {
	s.wireOnce.Do(func() {
		if s.shutdownCtx == nil {
			s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())
		}
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start feed wiring", slog.String("error", err.Error()))
		}
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.newApp()

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the feed subscriber
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down feed hub", slog.String("error", err.Error()))
	}

	if s.runtime != nil {
		if err := s.runtime.Close(ctx); err != nil {
			middleware.Logger.Error("error closing store", slog.String("error", err.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
