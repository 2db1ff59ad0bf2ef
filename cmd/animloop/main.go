package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fkcurrie/hub75-animloop/internal/config"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	verbose := flag.Bool("v", false, "Enable debug logging")
	cycles := flag.Int("cycles", 0, "Passes over the clip list; 0 runs forever")
	flag.Parse()

	cfg, loadErr := config.LoadConfig(*configPath)
	if loadErr != nil {
		cfg = config.DefaultConfig()
	}

	logger := newLogger(os.Stdout, cfg.Log, *verbose)
	slog.SetDefault(logger)
	if loadErr != nil {
		logger.Warn("failed to load config, using defaults", "config", *configPath, "error", loadErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *cycles); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("animloop stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}
