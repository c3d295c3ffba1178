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

	"github.com/vaashuyko/wishlist-api/internal/api"
	"github.com/vaashuyko/wishlist-api/internal/auth"
	"github.com/vaashuyko/wishlist-api/internal/config"
	"github.com/vaashuyko/wishlist-api/internal/database"
	"github.com/vaashuyko/wishlist-api/internal/logger"
	"github.com/vaashuyko/wishlist-api/internal/maintenance"
	"github.com/vaashuyko/wishlist-api/internal/services"
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

	// Set up token service and domain services
	tokens := auth.NewTokenService(cfg.JWTSecretKey, cfg.JWTAlgorithm,
		time.Duration(cfg.AccessTokenExpires)*time.Minute)
	userService := services.NewUserService(db)
	wishService := services.NewWishService(db)
	itemService := services.NewItemService(db)

	// Set up and run the background maintenance runner
	runner, err := maintenance.New(db, cfg.MaintenanceSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid maintenance schedule")
	}
	go runner.Run()

	// Set up router
	router := api.NewRouter(tokens, userService, wishService, itemService)

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

	runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
