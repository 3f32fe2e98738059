package lifecycle

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/spf13/cobra"
)

var rightSpecs []string

var rightsCmd = &cobra.Command{
	Use:   "rights [name]",
	Short: "Replace the rights of a lifecycle",
	Long: `Replace the right table of a lifecycle. Each --set maps a
"from -> to" key to the right a user needs for that change. Either side
may be the wildcard "*". Changes not covered by the table require
ModifyTicket.

Examples:
  lifecycles lifecycle rights default --set "* -> deleted=DeleteTicket" --set "new -> open=OpenTicket"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		rights := make(map[string]string, len(rightSpecs))
		for _, spec := range rightSpecs {
			i := strings.LastIndex(spec, "=")
			if i < 0 {
				return fmt.Errorf("invalid right %q, use \"FROM -> TO=Right\"", spec)
			}
			rights[strings.TrimSpace(spec[:i])] = strings.TrimSpace(spec[i+1:])
		}

		dto, err := app.UpdateLifecycleHandler.SetRights(cmd.Context(), commands.SetRightsCommand{
			Name:   args[0],
			Rights: rights,
		})
		if err != nil {
			return fmt.Errorf("failed to set rights: %w", err)
		}

		if jsonOutput {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rights of %q updated.\n", dto.Name)
		return nil
	},
}

func init() {
	rightsCmd.Flags().StringArrayVar(&rightSpecs, "set", nil, "right as \"FROM -> TO=Right\" (repeatable)")
}
