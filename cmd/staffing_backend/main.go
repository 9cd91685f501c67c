package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/shiftbridge/staffing_app/internal/adapters/billing"
	"github.com/shiftbridge/staffing_app/internal/adapters/database/pgsql"
	"github.com/shiftbridge/staffing_app/internal/adapters/notification"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/core/services"
	"github.com/shiftbridge/staffing_app/internal/handlers"
	"github.com/shiftbridge/staffing_app/internal/middleware"
	"github.com/shiftbridge/staffing_app/internal/scheduler"
	"github.com/shiftbridge/staffing_app/internal/utils"
	"github.com/shiftbridge/staffing_app/pkg/config"
	"github.com/shiftbridge/staffing_app/pkg/database"
)

// @title ShiftBridge Staffing API
// @version 1.0
// @description Backend service for the ShiftBridge dental staffing marketplace.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)))

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()
	r.Use(middleware.PosthogMiddleware(posthogClient))

	repos := pgsql.NewRepositoryProvider(dbPool)
	billingClient := billing.NewClient(cfg.BillingBaseURL, cfg.BillingAPIKey, cfg.BillingTimeout)

	var notifier portssvc.Notifier
	if cfg.NatsURL != "" {
		natsPublisher, err := notification.NewNatsPublisher(cfg.NatsURL)
		if err != nil {
			logger.Error("Failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer natsPublisher.Close()
		notifier = natsPublisher
	} else {
		logger.Warn("NATS_URL not set, notifications disabled.")
		notifier = notification.NoopNotifier{}
	}

	serviceContainer := services.NewServiceContainer(repos, billingClient, notifier)

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	if cfg.AgingJobEnabled {
		agingScheduler := scheduler.New(serviceContainer.Requisition, cfg.AgingJobInterval, logger)
		schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
		defer cancelScheduler()
		go agingScheduler.Start(schedulerCtx)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
