package cli

import (
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	CreateLifecycleHandler *commands.CreateLifecycleHandler
	UpdateLifecycleHandler *commands.UpdateLifecycleHandler
	SetMapHandler          *commands.SetMapHandler

	// Query Handlers
	GetLifecycleHandler    *queries.GetLifecycleHandler
	ListLifecyclesHandler  *queries.ListLifecyclesHandler
	CheckTransitionHandler *queries.CheckTransitionHandler
	GetActionsHandler      *queries.GetActionsHandler
	MapsHandler            *queries.MapsHandler
	RightsHandler          *queries.RightsHandler
	LocalizationHandler    *queries.LocalizationHandler
	ValidateConfigHandler  *queries.ValidateConfigHandler

	// Health
	Health *observability.HealthRegistry
}

// NewApp creates a new CLI application.
func NewApp(
	createLifecycleHandler *commands.CreateLifecycleHandler,
	updateLifecycleHandler *commands.UpdateLifecycleHandler,
	setMapHandler *commands.SetMapHandler,
	getLifecycleHandler *queries.GetLifecycleHandler,
	listLifecyclesHandler *queries.ListLifecyclesHandler,
	checkTransitionHandler *queries.CheckTransitionHandler,
	getActionsHandler *queries.GetActionsHandler,
	mapsHandler *queries.MapsHandler,
	rightsHandler *queries.RightsHandler,
	localizationHandler *queries.LocalizationHandler,
	validateConfigHandler *queries.ValidateConfigHandler,
) *App {
	return &App{
		CreateLifecycleHandler: createLifecycleHandler,
		UpdateLifecycleHandler: updateLifecycleHandler,
		SetMapHandler:          setMapHandler,
		GetLifecycleHandler:    getLifecycleHandler,
		ListLifecyclesHandler:  listLifecyclesHandler,
		CheckTransitionHandler: checkTransitionHandler,
		GetActionsHandler:      getActionsHandler,
		MapsHandler:            mapsHandler,
		RightsHandler:          rightsHandler,
		LocalizationHandler:    localizationHandler,
		ValidateConfigHandler:  validateConfigHandler,
	}
}

// SetHealth sets the health registry reported by the health command.
func (a *App) SetHealth(health *observability.HealthRegistry) {
	a.Health = health
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
