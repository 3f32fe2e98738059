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

var (
	createFile     string
	createType     string
	createInitial  []string
	createActive   []string
	createInactive []string
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a lifecycle",
	Long: `Create a new lifecycle, either from a YAML or JSON definition file
or from status flags. Flags override the matching fields of the file.

Examples:
  lifecycles lifecycle create approvals --initial pending --inactive approved,rejected
  lifecycles lifecycle create support --file support.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		var def domain.Definition
		if createFile != "" {
			def, err = readDefinition(createFile)
			if err != nil {
				return err
			}
		}
		if createType != "" {
			def.Type = createType
		}
		if cmd.Flags().Changed("initial") {
			def.Initial = createInitial
		}
		if cmd.Flags().Changed("active") {
			def.Active = createActive
		}
		if cmd.Flags().Changed("inactive") {
			def.Inactive = createInactive
		}

		dto, err := app.CreateLifecycleHandler.Handle(cmd.Context(), commands.CreateLifecycleCommand{
			Name:       args[0],
			Definition: def,
		})
		if err != nil {
			return fmt.Errorf("failed to create lifecycle: %w", err)
		}

		if jsonOutput {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Lifecycle %q created.\n", dto.Name)
		return nil
	},
}

// readDefinition decodes a lifecycle definition file. JSON is accepted
// as a subset of YAML.
func readDefinition(path string) (domain.Definition, error) {
	var def domain.Definition
	data, err := security.SafeReadFile(path)
	if err != nil {
		return def, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return def, nil
}

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "definition file (YAML or JSON)")
	createCmd.Flags().StringVar(&createType, "type", "", "lifecycle type (default \"ticket\")")
	createCmd.Flags().StringSliceVar(&createInitial, "initial", nil, "initial statuses")
	createCmd.Flags().StringSliceVar(&createActive, "active", nil, "active statuses")
	createCmd.Flags().StringSliceVar(&createInactive, "inactive", nil, "inactive statuses")
}
