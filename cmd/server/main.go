package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "carrental-backend/internal/api/http"
	"carrental-backend/internal/config"
	"carrental-backend/internal/jobs"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/repository/memory"
	"carrental-backend/internal/repository/postgres"
	"carrental-backend/internal/scheduler"
	"carrental-backend/internal/security"
	"carrental-backend/internal/service"

	_ "github.com/lib/pq"
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
	logger.Info("Starting Car Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to open store", "driver", cfg.Database.Driver, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Services
	var notifier service.Notifier
	if cfg.SMTP.Enabled() {
		logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
		emailSvc := service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
		notifier = service.NewEmailNotifier(store.Users(), emailSvc)
	} else {
		logger.Info("SMTP not configured, reservation notifications go to the log")
		notifier = service.NewLogNotifier()
	}

	reservationSvc := service.NewReservationService(store, service.SystemClock{}, notifier)
	carSvc := service.NewCarService(store, reservationSvc)
	authSvc := service.NewAuthService(store.Users(), tokenManager, cfg.Auth.AdminEmails)

	// Optional in-process scheduler
	if cfg.Scheduler.Enabled {
		cronScheduler, err := scheduler.NewScheduler(jobs.NewJobRunner(reservationSvc, cfg))
		if err != nil {
			logger.Error("Failed to create scheduler", "error", err)
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	// Set up HTTP server
	handler := httpapi.NewHandler(authSvc, carSvc, reservationSvc)
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      httpapi.NewRouter(handler, tokenManager),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Shutting down HTTP server...", "signal", sig.String())
	case err := <-errCh:
		logger.Error("HTTP server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// openStore returns the configured store and a function releasing it.
func openStore(cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on exit")
		return memory.NewStore(), func() {}, nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.RunMigrations {
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database migrations applied")
	}

	return postgres.NewStore(db), func() { db.Close() }, nil
}
