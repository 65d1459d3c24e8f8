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
	"github.com/riskibarqy/fpl-optimizer/internal/interfaces/mcpserver"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries MCP frames.
	logger := logging.New(cfg.LogLevel, os.Stderr)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	stopTelemetry, err := app.StartTelemetry(cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	server := mcpserver.New(mcpserver.Services{
		Refresh:   a.Refresh,
		Lineups:   a.Lineups,
		Transfers: a.Transfers,
	}, mcpserver.Options{
		Name:        cfg.ServiceName,
		Version:     cfg.ServiceVersion,
		AutoRefresh: !a.Persistent(),
		Logger:      logger.Named("mcp"),
	})

	runErr := server.Run(ctx)

	if err := a.Close(); err != nil {
		logger.Warn("close app", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stopTelemetry(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown failed", "error", err)
	}

	if runErr != nil {
		logger.Error("mcp server failed", "error", runErr)
		os.Exit(1)
	}
	logger.Info("mcp server stopped")
}
