package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aromeroh/usuarios-api/internal/api"
	"github.com/aromeroh/usuarios-api/internal/auth"
	"github.com/aromeroh/usuarios-api/internal/config"
	"github.com/aromeroh/usuarios-api/internal/database"
	"github.com/aromeroh/usuarios-api/internal/logger"
	"github.com/aromeroh/usuarios-api/internal/monitoring"
	"github.com/aromeroh/usuarios-api/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	tokenStore := auth.NewTokenStore(db)
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(userService, tokenStore, cfg.TokenTTL)
	statsService := services.NewStatsService(db)

	// Optional background sweep of expired token rows
	var sweeper *monitoring.Sweeper
	if cfg.SweepSchedule != "" {
		sweeper, err = monitoring.NewSweeper(tokenStore, cfg.SweepSchedule)
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("Invalid sweep schedule")
		}
		go sweeper.Run()
	}

	// Set up router
	router := api.NewRouter(userService, sessionService, statsService, cfg.CORSOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
