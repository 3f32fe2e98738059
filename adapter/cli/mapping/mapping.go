package mapping

import (
	"errors"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/spf13/cobra"
)

var jsonOutput bool

var errNotInitialized = errors.New("lifecycle registry not initialized; check LIFECYCLES_STORE and its connection settings")

// Cmd is the parent command for lifecycle maps.
var Cmd = &cobra.Command{
	Use:   "map",
	Short: "Manage status maps between lifecycles",
	Long: `A map translates statuses when a ticket moves from one lifecycle to
another. Maps are directional: "default -> approvals" is independent of
"approvals -> default".`,
}

func init() {
	Cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")

	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(missingCmd)
}

func getApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil {
		return nil, errNotInitialized
	}
	return app, nil
}
