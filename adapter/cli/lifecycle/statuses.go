package lifecycle

import (
	"fmt"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/spf13/cobra"
)

var (
	statusInitial  []string
	statusActive   []string
	statusInactive []string
)

var statusesCmd = &cobra.Command{
	Use:   "statuses [name]",
	Short: "Replace the statuses of a lifecycle",
	Long: `Replace the initial, active and inactive statuses of a lifecycle.
Omitted classes are cleared. A status may appear in only one class.

Examples:
  lifecycles lifecycle statuses default --initial new --active open,stalled --inactive resolved,rejected`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		dto, err := app.UpdateLifecycleHandler.SetStatuses(cmd.Context(), commands.SetStatusesCommand{
			Name:     args[0],
			Initial:  statusInitial,
			Active:   statusActive,
			Inactive: statusInactive,
		})
		if err != nil {
			return fmt.Errorf("failed to set statuses: %w", err)
		}

		if jsonOutput {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Statuses of %q updated.\n", dto.Name)
		return nil
	},
}

func init() {
	statusesCmd.Flags().StringSliceVar(&statusInitial, "initial", nil, "initial statuses")
	statusesCmd.Flags().StringSliceVar(&statusActive, "active", nil, "active statuses")
	statusesCmd.Flags().StringSliceVar(&statusInactive, "inactive", nil, "inactive statuses")
}
