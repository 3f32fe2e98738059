package mapping

import (
	"fmt"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [from] [to] [status]",
	Short: "Translate a status between two lifecycles",
	Long: `Show the status a ticket in the given status takes when it moves
from one lifecycle to another.

Examples:
  lifecycles map show default approvals open`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		result, err := app.MapsHandler.MapStatus(cmd.Context(), queries.MapStatusQuery{
			From:   args[0],
			To:     args[1],
			Status: args[2],
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return cli.PrintJSON(out, result)
		}
		switch {
		case !result.HasMap:
			fmt.Fprintf(out, "No map from %s to %s.\n", result.From, result.To)
		case !result.Mapped:
			fmt.Fprintf(out, "%s is not mapped from %s to %s.\n", result.Status, result.From, result.To)
		default:
			fmt.Fprintf(out, "%s -> %s\n", result.Status, result.Target)
		}
		return nil
	},
}
