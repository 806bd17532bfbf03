// Package main is the entry point for dungeonsim.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samdwyer/dungeonsim/internal/config"
	"github.com/samdwyer/dungeonsim/internal/game"
	"github.com/samdwyer/dungeonsim/internal/logging"
	"github.com/samdwyer/dungeonsim/internal/telemetry"
)

func main() {
	os.Exit(run())
}

// run starts the simulation and returns the process exit code. Deferred
// cleanup runs before main exits.
func run() int {
	// Not fatal: the environment may already be set.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	if tracingEnabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.Warn("telemetry disabled", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.Warn("telemetry shutdown", zap.Error(err))
				}
			}()
		}
	}

	g, err := game.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize game", zap.Error(err))
		return 1
	}
	if err := g.Run(ctx); err != nil {
		logger.Error("game error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "dungeonsim:", err)
		return 1
	}
	return 0
}

// tracingEnabled maps the Honeycomb variables onto the standard OTEL ones and
// reports whether an exporter endpoint is configured.
func tracingEnabled() bool {
	apiKey := os.Getenv("HONEYCOMB_DUNGEONSIM_API_KEY")
	if apiKey != "" {
		dataset := os.Getenv("HONEYCOMB_DUNGEONSIM_DATASET")
		if dataset == "" {
			dataset = "dungeonsim"
		}
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}
