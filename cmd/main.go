package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"seat-service/internal/cache"
	"seat-service/internal/config"
	"seat-service/internal/database"
	"seat-service/internal/handlers"
	"seat-service/internal/middleware"
	seatnats "seat-service/internal/nats"
	"seat-service/internal/repository"
	"seat-service/internal/scheduler"
	"seat-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	} else if cfg.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database connected and migrated")

	// Initialize Redis client (optional)
	redisClient := initRedis(cfg, logger)
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	// Initialize NATS publisher (optional)
	var publisher *seatnats.Publisher
	var natsClient *seatnats.Client
	if cfg.NATS.Enabled {
		natsClient, err = seatnats.NewClient(seatnats.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: time.Duration(cfg.NATS.ReconnectWait) * time.Second,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("NATS unavailable, seat events will not be published")
		} else {
			publisher = seatnats.NewPublisher(natsClient, logger)
			defer natsClient.Close()
		}
	}

	// Initialize store and services
	store := repository.NewStore(db)
	lifecycleService := services.NewLifecycleService(store, logger, publisher)
	assignmentService := services.NewAssignmentService(store, logger, publisher)

	// Initialize cache
	accountCache := cache.NewAccountCache(cache.CacheConfig{
		RedisClient: redisClient,
		Logger:      logger,
	})

	// Initialize metrics and handlers
	metrics := middleware.NewMetrics()
	healthHandler := handlers.NewHealthHandler(db)
	accountHandlers := handlers.NewAccountHandlers(lifecycleService, accountCache, metrics, logger)
	assignmentHandlers := handlers.NewAssignmentHandlers(assignmentService, accountCache, logger)

	// Start the expiry sweep scheduler
	sweeper := scheduler.NewExpirySweeper(store.Accounts(), lifecycleService, cfg.Expiry, logger)
	if err := sweeper.Start(); err != nil {
		logger.WithError(err).Warn("Expiry sweeper failed to start")
	}
	defer sweeper.Stop()

	// Setup router and server
	router := setupRouter(cfg, metrics, healthHandler, accountHandlers, assignmentHandlers)
	server := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	go func() {
		logger.WithField("address", cfg.GetServerAddress()).Info("Starting seat-service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	logger.Info("Server exited")
}

func setupRouter(
	cfg *config.Config,
	metrics *middleware.Metrics,
	healthHandler *handlers.HealthHandler,
	accountHandlers *handlers.AccountHandlers,
	assignmentHandlers *handlers.AssignmentHandlers,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.SetupCORS())
	router.Use(middleware.RequestID())
	router.Use(metrics.Middleware())

	// Health and metrics endpoints (no actor required)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Reads
		v1.GET("/accounts", accountHandlers.ListAccounts)
		v1.GET("/accounts/assignable", assignmentHandlers.ListAssignable)
		v1.GET("/accounts/:id", accountHandlers.GetAccount)
		v1.GET("/accounts/:id/usage-logs", accountHandlers.ListUsageLogs)

		// Mutations require an explicit actor
		mutating := v1.Group("")
		mutating.Use(middleware.Actor())
		{
			mutating.POST("/accounts", accountHandlers.CreateAccount)
			mutating.PUT("/accounts/:id", accountHandlers.UpdateAccount)
			mutating.DELETE("/accounts/:id", accountHandlers.DeleteAccount)
			mutating.POST("/accounts/:id/status", accountHandlers.ChangeStatus)
			mutating.POST("/accounts/:id/deliver", accountHandlers.Deliver)
			mutating.POST("/accounts/:id/cancel", accountHandlers.Cancel)
			mutating.POST("/accounts/:id/reset-ready", accountHandlers.MarkResetReady)
			mutating.POST("/accounts/:id/reuse", accountHandlers.Reuse)
			mutating.PUT("/accounts/:id/basic-info", accountHandlers.UpdateBasicInfo)
			mutating.POST("/accounts/:id/extend", accountHandlers.Extend)
			mutating.POST("/accounts/extend", accountHandlers.BatchExtend)
			mutating.PUT("/accounts/cards", assignmentHandlers.UpdateCardAssignments)
			mutating.POST("/orders/:orderId/assignments", assignmentHandlers.AssignToOrder)
			mutating.DELETE("/orders/:orderId/assignments", assignmentHandlers.UnassignFromOrder)
		}
	}

	return router
}

func initRedis(cfg *config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.Redis.URL == "" {
		logger.Info("Redis not configured, account cache runs local-only")
		return nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.WithError(err).Warn("Invalid Redis URL, account cache runs local-only")
		return nil
	}
	opts.MaxRetries = cfg.Redis.MaxRetries
	opts.PoolSize = cfg.Redis.PoolSize
	opts.MinIdleConns = cfg.Redis.MinIdleConns

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn(fmt.Sprintf("Redis unreachable at %s, account cache runs local-only", cfg.Redis.URL))
		client.Close()
		return nil
	}

	logger.Info("Redis connected")
	return client
}
