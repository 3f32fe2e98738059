package mapping

import (
	"fmt"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/spf13/cobra"
)

var entries = map[string]string{}

var setCmd = &cobra.Command{
	Use:   "set [from] [to]",
	Short: "Replace the status map between two lifecycles",
	Long: `Replace the map used when a ticket moves from one lifecycle to
another. Source statuses are matched without regard to case.

Examples:
  lifecycles map set default approvals --status new=pending --status open=pending --status resolved=approved`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		err = app.SetMapHandler.Handle(cmd.Context(), commands.SetMapCommand{
			From:    args[0],
			To:      args[1],
			Mapping: entries,
		})
		if err != nil {
			return fmt.Errorf("failed to set map: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Map %s -> %s updated (%d statuses).\n", args[0], args[1], len(entries))
		return nil
	},
}

func init() {
	setCmd.Flags().StringToStringVar(&entries, "status", nil, "from-status=to-status (repeatable)")
}
