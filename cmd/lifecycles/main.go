package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/adapter/cli/lifecycle"
	"github.com/felixgeelhaar/lifecycles/adapter/cli/mapping"
	"github.com/felixgeelhaar/lifecycles/adapter/cli/mcp"
	"github.com/felixgeelhaar/lifecycles/internal/app"
	mcpinternal "github.com/felixgeelhaar/lifecycles/internal/mcp"
	"github.com/felixgeelhaar/lifecycles/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cli.AddCommand(lifecycle.Cmd)
	cli.AddCommand(mapping.Cmd)
	cli.AddCommand(mcp.Cmd)

	code := cli.Execute(ctx, setup)
	stop()
	os.Exit(code)
}

// setup opens the configured registry for the command being run.
func setup(ctx context.Context, opts cli.Options) (*cli.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.ConfigPath != "" {
		cfg.ConfigPath = opts.ConfigPath
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	logger := app.NewLogger(cfg, os.Stderr, cli.Version)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			return nil, nil, err
		}
		// Commands report the missing registry themselves.
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
		return nil, nil, nil
	}

	if err := container.Start(ctx); err != nil {
		container.Close()
		return nil, nil, err
	}
	return mcpinternal.NewCLIApp(container), container.Close, nil
}
