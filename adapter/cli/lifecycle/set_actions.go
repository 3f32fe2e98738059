package lifecycle

import (
	"fmt"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var actionsFile string

var setActionsCmd = &cobra.Command{
	Use:   "set-actions [name]",
	Short: "Replace the actions of a lifecycle",
	Long: `Replace the actions of a lifecycle from a YAML or JSON file. The file
holds either a list of {from, to, label, update} entries or a mapping
of "from -> to" keys to {label, update}. Update is empty, Respond or
Comment.

Examples:
  lifecycles lifecycle set-actions default --file actions.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}
		if actionsFile == "" {
			return fmt.Errorf("--file is required")
		}

		data, err := security.SafeReadFile(actionsFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", actionsFile, err)
		}
		var actions domain.Actions
		if err := yaml.Unmarshal(data, &actions); err != nil {
			return fmt.Errorf("failed to parse %s: %w", actionsFile, err)
		}

		dto, err := app.UpdateLifecycleHandler.SetActions(cmd.Context(), commands.SetActionsCommand{
			Name:    args[0],
			Actions: actions,
		})
		if err != nil {
			return fmt.Errorf("failed to set actions: %w", err)
		}

		if jsonOutput {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Actions of %q updated (%d).\n", dto.Name, len(dto.Actions))
		return nil
	},
}

func init() {
	setActionsCmd.Flags().StringVarP(&actionsFile, "file", "f", "", "actions file (YAML or JSON)")
}
