package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crowdwatch-worker-go/internal/api"
	"crowdwatch-worker-go/internal/config"
	"crowdwatch-worker-go/internal/logging"
	"crowdwatch-worker-go/internal/models"
	"crowdwatch-worker-go/internal/services"
)

// @title CrowdWatch Worker API
// @version 1.0.0
// @description Zone density classification, rate-limited crowd alerts and exit-routing instructions
// @BasePath /
func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.Load()

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogdyEnabled {
		logdyOut, err := logging.StartLogdy(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to start Logdy, continuing with console logging only")
		} else {
			var out io.Writer = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr}, logdyOut)
			log.Logger = zerolog.New(out).With().Timestamp().Logger()
		}
	}

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("classification_config", cfg.ClassificationConfigPath).
		Bool("messaging_enabled", cfg.MessagingEnabled).
		Msg("Starting CrowdWatch worker")

	container, err := services.NewServiceContainer(cfg)
	if err != nil {
		var cfgErr *models.ConfigError
		if errors.As(err, &cfgErr) {
			log.Fatal().Str("key", cfgErr.Key).Str("reason", cfgErr.Reason).Msg("Invalid classification config")
		}
		log.Fatal().Err(err).Msg("Failed to create services")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := container.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start worker")
	}

	server, err := api.NewServer(cfg, container.Worker, api.WithMessagingStatus(container.MessagingStatus()))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		log.Info().Msg("Server shutdown complete")
	}

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Service shutdown failed")
	}
}
