package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/access-portal-be/internal/api"
	"github.com/nmoreau/access-portal-be/internal/auth"
	"github.com/nmoreau/access-portal-be/internal/config"
	"github.com/nmoreau/access-portal-be/internal/database"
	"github.com/nmoreau/access-portal-be/internal/logger"
	"github.com/nmoreau/access-portal-be/internal/monitoring"
	"github.com/nmoreau/access-portal-be/internal/services"
	"github.com/nmoreau/access-portal-be/internal/uploads"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

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

	// Seed runs once per process, never per request.
	if err := database.Seed(db, auth.HashPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default accounts")
	}

	// Avatar storage
	avatars, err := uploads.NewStore(cfg.UploadDir, cfg.AllowedExts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload store")
	}

	// Set up sessions and services
	store := auth.NewStore(cfg.SessionTTL)
	tokens := auth.NewTokens(cfg.SessionSecret, cfg.SessionTTL)
	userService := services.NewUserService(db)

	// Background sweep of expired sessions
	sweeper := monitoring.NewSessionSweeper(store, time.Minute)
	if err := sweeper.Run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start session sweeper")
	}

	// Set up router
	router := api.NewRouter(userService, store, tokens, avatars, cfg.SessionTTL)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
