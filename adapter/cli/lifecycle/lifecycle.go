package lifecycle

import (
	"errors"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/spf13/cobra"
)

var jsonOutput bool

// errNotInitialized is returned when the registry could not be opened.
var errNotInitialized = errors.New("lifecycle registry not initialized; check LIFECYCLES_STORE and its connection settings")

// Cmd is the parent command for lifecycle operations.
var Cmd = &cobra.Command{
	Use:     "lifecycle",
	Aliases: []string{"lc"},
	Short:   "Inspect and edit ticket lifecycles",
	Long: `Inspect and edit the lifecycles tickets move through.

A lifecycle groups statuses into initial, active and inactive classes,
lists the transitions between them, the rights each transition requires
and the actions offered to users.`,
}

func init() {
	Cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(actionsCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(statusesCmd)
	Cmd.AddCommand(transitionsCmd)
	Cmd.AddCommand(rightsCmd)
	Cmd.AddCommand(setActionsCmd)
	Cmd.AddCommand(defaultsCmd)
}

func getApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil {
		return nil, errNotInitialized
	}
	return app, nil
}
