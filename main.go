// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"movies-api/cmd"
	"movies-api/internal/data/repository"
	"movies-api/internal/wire"
	"movies-api/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Strings("cors_allowed_origins", config.CORS.AllowedOrigins),
	)

	// Load initial dataset
	seed, err := repository.LoadSeed(config.Seed.Path)
	if err != nil {
		logger.Fatal("Failed to load seed movies", zap.Error(err), zap.String("path", config.Seed.Path))
	}

	logger.Info("Seed loaded", zap.Int("movies", len(seed)))

	repos := repository.NewRepository(seed, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.APIServer(ctx, app.Router, config, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
