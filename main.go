package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/isdelr/devblogs-be/internal/api"
	"github.com/isdelr/devblogs-be/internal/auth"
	"github.com/isdelr/devblogs-be/internal/config"
	"github.com/isdelr/devblogs-be/internal/database"
	"github.com/isdelr/devblogs-be/internal/logger"
	"github.com/isdelr/devblogs-be/internal/monitoring"
	"github.com/isdelr/devblogs-be/internal/services"
	"github.com/isdelr/devblogs-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Ensure the directory holding the database exists
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("Failed to create database directory")
		}
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.SessionTTL)
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, eventService, cfg.BcryptCost)
	blogService := services.NewBlogService(db, hub)
	contactService := services.NewContactService(db)
	thoughtService := services.NewThoughtService(db)

	if cfg.HasBootstrapAdmin() {
		created, err := userService.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap admin account")
		}
		if created {
			log.Info().Str("email", cfg.AdminEmail).Msg("Bootstrap admin account created")
		}
	}

	// Set up and run the background stats reporter
	statsReporter, err := monitoring.NewStatsReporter(db, cfg.StatsSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up stats reporter")
	}
	go statsReporter.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Config:   cfg,
		Tokens:   tokens,
		Users:    userService,
		Blogs:    blogService,
		Contacts: contactService,
		Thoughts: thoughtService,
		Events:   eventService,
		Stats:    statsReporter,
		Hub:      hub,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	statsReporter.Stop()
	hub.Stop()

	log.Info().Msg("Server exiting")
}
