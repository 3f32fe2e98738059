package lifecycle

import (
	"fmt"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/spf13/cobra"
)

var (
	defaultInitial    string
	defaultInactive   string
	defaultSituations = map[string]string{}
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults [name]",
	Short: "Set the default statuses of a lifecycle",
	Long: `Set the statuses a lifecycle falls back to. --initial and --inactive
replace default_initial and default_inactive. When --situation is given
the named situations (on_create, on_merge, approved, denied,
reminder_on_open, reminder_on_resolve) are replaced as a whole.

Examples:
  lifecycles lifecycle defaults default --initial new --inactive resolved
  lifecycles lifecycle defaults default --situation on_merge=resolved`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		update := commands.SetDefaultsCommand{
			Name:     args[0],
			Initial:  defaultInitial,
			Inactive: defaultInactive,
		}
		if cmd.Flags().Changed("situation") {
			update.Situations = defaultSituations
		}

		dto, err := app.UpdateLifecycleHandler.SetDefaults(cmd.Context(), update)
		if err != nil {
			return fmt.Errorf("failed to set defaults: %w", err)
		}

		if jsonOutput {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Defaults of %q updated.\n", dto.Name)
		return nil
	},
}

func init() {
	defaultsCmd.Flags().StringVar(&defaultInitial, "initial", "", "default initial status")
	defaultsCmd.Flags().StringVar(&defaultInactive, "inactive", "", "default inactive status")
	defaultsCmd.Flags().StringToStringVar(&defaultSituations, "situation", nil, "situation=status (repeatable)")
}
