package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etokheim/scene-extrapolation/internal/scene"
	"github.com/etokheim/scene-extrapolation/pkg/config"
	"github.com/etokheim/scene-extrapolation/pkg/health"
	"github.com/etokheim/scene-extrapolation/pkg/mqtt"
	"github.com/etokheim/scene-extrapolation/pkg/postgres"
	"github.com/etokheim/scene-extrapolation/pkg/redis"
)

func main() {
	// Load configuration with hierarchy: defaults → env → flags
	cfg := config.NewConfig()
	cfg.ServiceName = "scene-agent"
	cfg.LoadFromEnv()
	cfg.LoadFromFlags()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging
	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting Scene Extrapolation Agent",
		"version", "1.0",
		"service_name", cfg.ServiceName,
		"mqtt_broker", cfg.MQTTAddress(),
		"scene_source", cfg.SceneSource,
		"log_level", cfg.LogLevel)

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize MQTT client
	mqttClient := mqtt.NewClient(cfg, logger)

	// Redis backs the scene store and the nightlights state lookup; a
	// file-only deployment without nightlights runs without it
	var redisClient redis.Client
	if cfg.SceneSource == "redis" || cfg.NightlightsBooleanID != "" {
		redisClient = redis.NewClient(cfg, logger)
	}

	store, err := buildStore(cfg, redisClient, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scene store error: %v\n", err)
		os.Exit(1)
	}

	var states scene.StateReader
	if redisClient != nil && cfg.NightlightsBooleanID != "" {
		states = scene.NewRedisStateReader(redisClient)
	}

	// Optional activation journal
	var journal *scene.Journal
	var pgClient postgres.Client
	if cfg.JournalEnabled {
		pgClient = postgres.NewClient(cfg, logger)
		if err := pgClient.Connect(ctx); err != nil {
			logger.Error("Failed to connect to Postgres, journal disabled", "error", err)
			pgClient = nil
		} else {
			journal = scene.NewJournal(pgClient, logger)
			if err := journal.EnsureSchema(ctx); err != nil {
				logger.Error("Failed to prepare journal schema, journal disabled", "error", err)
				journal = nil
			}
		}
	}

	// Create scene agent
	agent := scene.NewAgent(mqttClient, redisClient, store, states, journal, cfg, logger)

	// Start health check server
	healthChecker := health.NewChecker(mqttClient, redisClient, logger)
	if pgClient != nil {
		healthChecker.SetPostgres(pgClient)
	}
	httpServer := startHealthServer(cfg.HealthPort, healthChecker, logger)

	// Start agent in a goroutine
	agentErr := make(chan error, 1)
	go func() {
		if err := agent.Start(ctx); err != nil {
			logger.Error("Agent error", "error", err)
			agentErr <- err
		}
	}()

	// Wait for shutdown signal or agent error
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received (SIGTERM/SIGINT)")
	case err := <-agentErr:
		logger.Error("Agent failed", "error", err)
	}

	// Graceful shutdown
	logger.Info("Initiating graceful shutdown")
	cancel()

	if err := agent.Stop(); err != nil {
		logger.Error("Error stopping agent", "error", err)
	}

	if pgClient != nil {
		if err := pgClient.Disconnect(); err != nil {
			logger.Error("Error disconnecting Postgres", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down health server", "error", err)
	}

	logger.Info("Scene agent shutdown complete")
}

// buildStore selects the scene snapshot backend
func buildStore(cfg *config.Config, redisClient redis.Client, logger *slog.Logger) (scene.Store, error) {
	switch cfg.SceneSource {
	case "redis":
		return scene.NewRedisStore(redisClient, logger), nil
	case "file":
		return scene.NewFileStore(cfg.SceneFile, logger)
	default:
		return nil, fmt.Errorf("unknown scene source %q", cfg.SceneSource)
	}
}

func startHealthServer(port int, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HandlerFunc())
	mux.HandleFunc("/health/detailed", checker.DetailedHandlerFunc())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("Starting health check server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", "error", err)
		}
	}()

	return server
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
