package mcp

import (
	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/app"
)

// NewCLIApp builds the CLI application from a wired container. The MCP
// tools and the command line share it.
func NewCLIApp(container *app.Container) *cli.App {
	cliApp := cli.NewApp(
		container.CreateLifecycleHandler,
		container.UpdateLifecycleHandler,
		container.SetMapHandler,
		container.GetLifecycleHandler,
		container.ListLifecyclesHandler,
		container.CheckTransitionHandler,
		container.GetActionsHandler,
		container.MapsHandler,
		container.RightsHandler,
		container.LocalizationHandler,
		container.ValidateConfigHandler,
	)

	if container.Health != nil {
		cliApp.SetHealth(container.Health)
	}

	return cliApp
}
