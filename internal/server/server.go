// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	_ "bailemos/docs" // swagger docs
	"bailemos/internal/cache"
	"bailemos/internal/config"
	"bailemos/internal/database"
	"bailemos/internal/featureflags"
	"bailemos/internal/middleware"
	"bailemos/internal/models"
	"bailemos/internal/notifications"
	"bailemos/internal/repository"
	"bailemos/internal/service"
	"bailemos/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	promOnce sync.Once
	promMW   *fiberprometheus.FiberPrometheus
)

// httpMetrics registers the HTTP collectors once per process.
func httpMetrics() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMW = fiberprometheus.New("bailemos-api")
	})
	return promMW
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	auth           *middleware.Authenticator
	userRepo       repository.UserRepository
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager
	store          *storage.Store
	gateway        *notifications.Gateway

	authService       *service.AuthService
	academyService    *service.AcademyService
	enrollmentService *service.EnrollmentService
	venueService      *service.VenueService
	adminService      *service.AdminService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	classRepo := repository.NewClassRepository(db)
	venueRepo := repository.NewVenueRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: httpMetrics(),
		auth:           middleware.NewAuthenticator(cfg),
		userRepo:       userRepo,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		store:          storage.NewStore(cfg),
	}

	// Realtime delivery needs Redis; without it the channel reports disabled.
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
	}

	server.gateway = notifications.NewGateway(
		notifications.NewPushSender(context.Background(), cfg),
		notifications.NewEmailSender(cfg),
		server.notifier,
		server.store,
		cfg.NotifyTimeout(),
	)
	server.gateway.SetVoucherAttachments(server.featureFlags.EnabledFunc(featureflags.VoucherAttachments))

	server.authService = service.NewAuthService(userRepo, enrollmentRepo, server.auth)
	server.academyService = service.NewAcademyService(userRepo, classRepo)
	server.enrollmentService = service.NewEnrollmentService(enrollmentRepo, userRepo, server.store, server.gateway, cfg.NotifyTimeout())
	server.venueService = service.NewVenueService(userRepo, venueRepo)
	server.adminService = service.NewAdminService(db)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers. Vouchers under /uploads are embedded by the dashboard.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8081,http://localhost:19006,http://127.0.0.1:8081"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP) in production.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || !s.config.IsProduction()
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/swagger/*", swagger.HandlerDefault)

	// Stored vouchers
	app.Static("/uploads", s.store.BaseDir(), fiber.Static{
		MaxAge: 3600,
	})

	api := app.Group("/api")
	authRequired := s.auth.Required()

	authLimit := s.config.AuthRateLimit
	if authLimit <= 0 {
		authLimit = 10
	}
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, authLimit, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, authLimit, 5*time.Minute, "login"), s.Login)

	users := api.Group("/users", authRequired)
	users.Get("/me", s.GetMe)
	users.Patch("/me", s.UpdateMe)
	users.Put("/me/device-token", s.UpdateDeviceToken)
	users.Get("/:userId/schedule", s.GetSchedule)
	users.Put("/:userId/schedule", s.PutSchedule)
	users.Get("/:userId/prices", s.GetPrices)
	users.Put("/:userId/prices", s.PutPrices)

	academyOnly := middleware.RoleRequired(models.RoleAcademy)
	dancerOnly := middleware.RoleRequired(models.RoleDancer)

	enrollLimit := s.config.EnrollRateLimit
	if enrollLimit <= 0 {
		enrollLimit = 5
	}

	academy := api.Group("/academy")
	// Public catalogue
	academy.Get("/academies", s.ListAcademies)

	// Specific paths must be registered before the generic /:academyId ones.
	academy.Get("/classes", s.auth.Optional(), s.ListClasses)
	academy.Post("/classes", authRequired, academyOnly, s.CreateClass)
	academy.Get("/classes/:classId/bookings", authRequired, academyOnly, s.GetClassBookings)
	academy.Post("/bookings", authRequired, dancerOnly, s.BookClass)
	academy.Get("/bookings/my", authRequired, dancerOnly, s.GetMyBookings)
	academy.Patch("/bookings/:bookingId", authRequired, dancerOnly, s.CancelBooking)
	academy.Get("/enrollments", authRequired, academyOnly, s.ListMyAcademyEnrollments)

	academy.Get("/:academyId/enrollments", authRequired,
		middleware.RoleRequired(models.RoleAcademy, models.RoleAdmin), s.ListEnrollments)
	academy.Get("/:academyId/enrollments/:enrollmentId", authRequired,
		middleware.RoleRequired(models.RoleAcademy, models.RoleAdmin), s.GetEnrollment)
	academy.Patch("/:academyId/enrollments/:enrollmentId", authRequired, academyOnly, s.DecideEnrollment)
	academy.Get("/:academyId/enrollment", authRequired, dancerOnly, s.GetMyEnrollmentStatus)
	academy.Post("/:academyId/enroll", authRequired, dancerOnly,
		middleware.RateLimit(s.redis, enrollLimit, time.Minute, "enroll"), s.Enroll)
	academy.Get("/:id", s.GetAcademy)

	establishment := api.Group("/establishment", authRequired, middleware.RoleRequired(models.RoleEstablishment))
	establishment.Post("/events", s.CreateEvent)
	establishment.Get("/events", s.ListEvents)
	establishment.Post("/promotions", s.CreatePromotion)
	establishment.Get("/promotions", s.ListPromotions)

	dancer := api.Group("/dancer", authRequired, dancerOnly)
	dancer.Get("/nearby/academies", s.NearbyAcademies)
	dancer.Get("/nearby/events", s.NearbyEvents)
	dancer.Get("/promotions", s.AvailablePromotions)
	dancer.Get("/promotions/:id/qr", s.GetPromotionQR)

	// Realtime channel; browsers cannot set headers on upgrade so the token
	// may travel in the query string.
	api.Get("/ws", s.auth.WebSocketRequired(), s.WebsocketUpgrade, s.WebsocketHandler())

	admin := api.Group("/admin", authRequired, middleware.RoleRequired(models.RoleAdmin))
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Get("/enrollments", s.GetEnrollmentOverview)
	admin.Get("/academies/:academyId", s.GetAdminAcademy)
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

	// Redis only backs cache, rate limits and realtime; all degrade gracefully.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
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

// NewApp builds the fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	bodyLimit := s.config.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}

	app := fiber.New(fiber.Config{
		AppName:   "Bailemos API",
		BodyLimit: bodyLimit * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start realtime wiring", "error", err)
			}
		}()
	}

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the wiring goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	// Let in-flight notifications finish before their connections go away.
	drained := make(chan struct{})
	go func() {
		s.enrollmentService.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		middleware.Logger.Warn("shutdown deadline reached with notifications in flight")
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down realtime hub", "error", err)
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

	middleware.Logger.Info("server shutdown complete")
	return nil
}
