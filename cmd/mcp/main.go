package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/app"
	mcpinternal "github.com/felixgeelhaar/lifecycles/internal/mcp"
	"github.com/felixgeelhaar/lifecycles/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		app.NewLogger(&config.Config{AppEnv: "development"}, os.Stderr, cli.Version).
			Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stderr, cli.Version)
	if err := mcpinternal.Run(ctx, cfg, logger); err != nil {
		logger.Error("mcp server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
