package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"nareo/internal/config"
	"nareo/internal/database"
	"nareo/internal/handlers"
	"nareo/internal/jobs"
	"nareo/internal/logger"
	"nareo/internal/metrics"
	"nareo/internal/repository"
	"nareo/internal/security"
	"nareo/internal/service"
	"nareo/internal/srs"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode, cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		log.Fatal("Failed to load study policy", "path", cfg.PolicyPath, "error", err)
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()

	log.Info("Database connection established", "type", cfg.DatabaseType)

	applied, err := db.RunMigrations(cfg.MigrationsPath)
	if err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}
	log.Info("Migrations completed successfully", "applied", len(applied))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize repositories
	itemRepo := repository.NewItemRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Initialize services
	profileService := service.NewProfileService(profileRepo, policy.Streak.InitialFreezes)
	activityService := service.NewActivityService(db, profileService, policy.Activity, log, m)
	reviewService := service.NewReviewService(itemRepo, activityService, srs.NewScheduler(policy.Scheduler), log, m)
	streakService := service.NewStreakService(db, profileService, policy.Streak, policy.Activity, log, m)
	priorityService := service.NewPriorityService(itemRepo, policy.Priority)
	overviewService := service.NewOverviewService(profileService, reviewService, activityService, streakService, priorityService)

	ctx := context.Background()
	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, log)
	if err != nil {
		log.Fatal("Failed to initialize email service", "error", err)
	}
	var reminders jobs.ReminderSender
	if emailService.IsEnabled() {
		reminders = service.NewReminderService(profileRepo, streakService, activityService, emailService, cfg.ReminderHour, log, m)
	}

	scheduler := jobs.New(streakService, reminders, log, m)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start background jobs", "error", err)
	}
	defer scheduler.Stop()

	verifier, err := security.NewTokenVerifier(cfg.JWTSecret, cfg.JWTAudience)
	if err != nil {
		log.Fatal("Failed to initialize token verifier", "error", err)
	}
	limiter := security.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	defer limiter.Stop()

	// Initialize handlers
	router := &handlers.Router{
		Middleware: handlers.NewMiddleware(verifier, limiter, log, m),
		Health:     handlers.NewHealthHandler(db, log),
		Items:      handlers.NewItemHandler(reviewService, log),
		Activity:   handlers.NewActivityHandler(activityService, log),
		Streaks:    handlers.NewStreakHandler(streakService, log),
		Profiles:   handlers.NewProfileHandler(profileService, log),
		Stats:      handlers.NewStatsHandler(priorityService, overviewService, log),
		Gatherer:   reg,
	}

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
