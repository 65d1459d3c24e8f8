package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/app"
	"github.com/riskibarqy/fpl-optimizer/internal/config"
	"github.com/riskibarqy/fpl-optimizer/internal/interfaces/cli"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	// stdout carries tables and JSON output.
	logger := logging.New(cfg.LogLevel, os.Stderr)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	stopTelemetry, err := app.StartTelemetry(cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stopTelemetry(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	runner := cli.NewRunner(cli.Services{
		Refresh:   a.Refresh,
		Sync:      a.Ingestion,
		Predict:   a.Predictions,
		Lineups:   a.Lineups,
		Transfers: a.Transfers,
		Fixtures:  a.Fixtures,
		Players:   a.Players,
	}, cli.Options{
		AutoRefresh: !a.Persistent(),
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Logger:      logger.Named("cli"),
	})

	return runner.Run(ctx, os.Args[1:])
}
