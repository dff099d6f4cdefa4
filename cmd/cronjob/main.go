package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/jobs"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/push"
	"bloodlink-backend/internal/repository/postgres"
	"bloodlink-backend/internal/scheduler"
	"bloodlink-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'escalate-stale-requests', 'notify-cooldown-complete', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting BloodLink Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Scheduled jobs persist notifications but skip device pushes; the server
	// process owns the FCM credentials.
	dispatcher := service.NewNotificationDispatcher(store.NotificationRepository, store.UserRepository, push.NewNoopSender())
	searchSvc := service.NewDonorSearchService(store.UserRepository, cfg.Search.MaxRadiusKm)

	jobServices := &jobs.Services{
		Search:     searchSvc,
		Dispatcher: dispatcher,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob runner...")
	cronScheduler.Stop()
	logger.Info("Cronjob runner stopped")
}

func runJobOnce(jr *jobs.JobRunner, name string) {
	switch name {
	case "escalate-stale-requests":
		jr.EscalateStaleRequests()
	case "notify-cooldown-complete":
		jr.NotifyCooldownComplete()
	case "all":
		jr.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", name)
		log.Fatalf("Unknown job name: %s", name)
	}
}
