package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"carrental-backend/internal/config"
	"carrental-backend/internal/jobs"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository/postgres"
	"carrental-backend/internal/scheduler"
	"carrental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-expired-reservations', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Car Rental Cronjob Runner...", "log_level", cfg.Log.Level)

	// The memory store lives inside the server process; a separate runner
	// has nothing to reconcile.
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("cronjob requires database.driver %q, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	// Initialize Services
	var notifier service.Notifier
	if cfg.SMTP.Enabled() {
		emailService := service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
		notifier = service.NewEmailNotifier(store.Users(), emailService)
	} else {
		notifier = service.NewLogNotifier()
	}
	reservationService := service.NewReservationService(store, service.SystemClock{}, notifier)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(reservationService, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.RunOnce(*runOnce); err != nil {
			logger.Error("Unknown job name", "job", *runOnce)
			printJobs(jobRunner)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "next_run", cronScheduler.NextRun())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

func printJobs(jobRunner *jobs.JobRunner) {
	fmt.Printf("Available jobs:\n")
	for _, job := range jobRunner.Jobs() {
		fmt.Printf("  - %s (%s)\n", job.Name, job.Spec)
	}
	fmt.Printf("  - all\n")
}
