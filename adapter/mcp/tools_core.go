package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check registry and store health").
		Handler(func(ctx context.Context, input struct{}) (*observability.OverallHealth, error) {
			return health(ctx, app)
		})

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	return nil
}

func health(ctx context.Context, app *cli.App) (*observability.OverallHealth, error) {
	if app == nil {
		return nil, errors.New("app not initialized")
	}
	if app.Health == nil {
		return &observability.OverallHealth{Status: observability.HealthStatusHealthy}, nil
	}
	overall := app.Health.GetOverallHealth(ctx)
	return &overall, nil
}
