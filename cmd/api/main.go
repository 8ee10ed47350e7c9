package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dealdesk/dealdesk-api/docs" // Swagger docs
	"github.com/dealdesk/dealdesk-api/internal/config"
	"github.com/dealdesk/dealdesk-api/internal/database"
	"github.com/dealdesk/dealdesk-api/internal/handlers"
	"github.com/dealdesk/dealdesk-api/internal/jobs"
	"github.com/dealdesk/dealdesk-api/internal/middleware"
	"github.com/dealdesk/dealdesk-api/internal/repository"
	"github.com/dealdesk/dealdesk-api/internal/services"
	"github.com/dealdesk/dealdesk-api/internal/session"
	"github.com/dealdesk/dealdesk-api/internal/upstream"
	"github.com/dealdesk/dealdesk-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title DealDesk API
// @version 1.0
// @description Deal submission workflow service for the brokerage core API

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to the session store
	sessions, err := session.NewStore(cfg.RedisURL, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		logger.Error("Failed to connect to session store", "error", err)
		os.Exit(1)
	}
	if err := sessions.Ping(context.Background()); err != nil {
		logger.Error("Failed to ping session store", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to session store")

	// Core API client
	client := upstream.New(cfg.CoreAPIURL, time.Duration(cfg.CoreAPITimeoutSeconds)*time.Second)

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, client, sessions, worker, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, sessions, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, sessions *session.Store, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret, sessions))
		{
			protected.POST("/auth/logout", h.Auth.Logout)
			protected.GET("/auth/me", h.Auth.Me)

			// Reference data
			filters := protected.Group("/filters")
			{
				filters.GET("", h.Filter.Index)
				filters.POST("/refetch", h.Filter.Refetch)
				filters.GET("/:category", h.Filter.Show)
			}

			// Deal drafts. Role checks inside the service decide who may
			// create versus edit; the routes themselves are open to every
			// authenticated role.
			drafts := protected.Group("/deals/drafts")
			{
				drafts.POST("", h.Deal.Create)
				drafts.GET("", h.Deal.Index)
				drafts.GET("/:id", h.Deal.Show)
				drafts.PATCH("/:id", h.Deal.Update)
				drafts.DELETE("/:id", h.Deal.Discard)
				drafts.POST("/:id/preview", h.Deal.Preview)
				drafts.POST("/:id/back", h.Deal.Back)
				drafts.POST("/:id/confirm", h.Deal.Confirm)
				drafts.POST("/:id/submit", h.Deal.Submit)
				drafts.GET("/:id/summary.pdf", h.Deal.SummaryPDF)
			}

			// Reports (back-office roles only)
			reports := protected.Group("/reports")
			reports.Use(middleware.RequireRole("finance", "ceo", "admin", "sales_admin"))
			{
				reports.GET("/deals.csv", h.Report.DealsCSV)
				reports.GET("/deals.xlsx", h.Report.DealsXLSX)
			}

			// Audit log (admin only)
			protected.GET("/audit", middleware.RequireRole("admin"), h.Audit.Index)

			// Notifications (users manage their own)
			// Static route first so "read-all" is not matched as :id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/read-all", h.Notification.MarkAllAsRead)
				notifications.POST("/:id/read", h.Notification.MarkAsRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Refresh the reference-data cache on a timer when a service token is
	// configured; otherwise the first authenticated request warms it.
	if cfg.CoreAPIServiceToken != "" {
		worker.ScheduleEveryImmediate(time.Duration(cfg.FilterRefreshMinutes)*time.Minute, func(ctx context.Context) error {
			logger.Info("[Job] Refreshing reference data...")
			_, err := svcs.Filter.Refetch(ctx, cfg.CoreAPIServiceToken)
			return err
		})
	}

	// Prune abandoned drafts daily
	draftTTL := time.Duration(cfg.DraftTTLHours) * time.Hour
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Pruning stale drafts...")
		pruned, err := svcs.Deal.PruneStale(ctx, draftTTL)
		if err != nil {
			return err
		}
		if pruned > 0 {
			logger.Info("[Job] Pruned stale drafts", "count", pruned)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
