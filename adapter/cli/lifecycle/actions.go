package lifecycle

import (
	"fmt"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions [name] [from]",
	Short: "List the actions offered from a status",
	Long: `List the actions a user may take on a ticket in the given status.
Without a status every configured action is listed.

Examples:
  lifecycles lifecycle actions default open
  lifecycles lifecycle actions default`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		query := queries.GetActionsQuery{Lifecycle: args[0]}
		if len(args) == 2 {
			query.From = args[1]
		}
		actions, err := app.GetActionsHandler.Handle(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return cli.PrintJSON(out, actions)
		}
		if len(actions) == 0 {
			fmt.Fprintln(out, "No actions.")
			return nil
		}
		for _, action := range actions {
			printAction(out, action)
		}
		return nil
	},
}
