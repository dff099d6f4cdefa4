package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	_ "github.com/lib/pq"

	httpapi "bloodlink-backend/internal/api/http"
	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/push"
	"bloodlink-backend/internal/repository/postgres"
	"bloodlink-backend/internal/security"
	"bloodlink-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting BloodLink Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Redis event bus
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to ping redis", "error", err, "addr", cfg.Redis.Addr)
		cancel()
		log.Fatalf("Failed to ping redis: %v", err)
	}
	cancel()
	logger.Info("Redis connection established", "addr", cfg.Redis.Addr)

	// Initialize push sender
	var sender push.Sender
	switch cfg.Push.Type {
	case "fcm":
		fcmSender, err := push.NewFCMSender(context.Background(), cfg.Push.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM sender", "error", err)
			log.Fatalf("Failed to initialize FCM sender: %v", err)
		}
		sender = fcmSender
		logger.Info("Push notifications via FCM")
	default:
		sender = push.NewNoopSender()
		logger.Info("Push notifications disabled (noop sender)")
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

	// Initialize Services
	dispatcher := service.NewNotificationDispatcher(store.NotificationRepository, store.UserRepository, sender)
	searchSvc := service.NewDonorSearchService(store.UserRepository, cfg.Search.MaxRadiusKm)
	bus := events.NewRedisPublisher(redisClient)
	requestSvc := service.NewRequestService(
		store.RequestRepository,
		store.UserRepository,
		searchSvc,
		dispatcher,
		bus,
		cfg.Search.DefaultRadiusKm,
	)
	userSvc := service.NewUserService(store.UserRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers and router
	router := httpapi.NewRouter(httpapi.Handlers{
		Requests:      httpapi.NewRequestHandler(requestSvc),
		Donors:        httpapi.NewDonorHandler(searchSvc, userSvc),
		Notifications: httpapi.NewNotificationHandler(noteSvc),
		Health:        httpapi.NewHealthHandler(db, redisClient),
		Auth:          authMiddleware,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
