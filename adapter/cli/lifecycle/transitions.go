package lifecycle

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/commands"
	"github.com/spf13/cobra"
)

var transitionSpecs []string

var transitionsCmd = &cobra.Command{
	Use:   "transitions [name]",
	Short: "Replace the transitions of a lifecycle",
	Long: `Replace the transition graph of a lifecycle. Each --set names a source
status and the comma separated statuses it may move to. An empty source
lists the statuses a ticket may be created in. Without any --set the
lifecycle allows no change at all.

Examples:
  lifecycles lifecycle transitions default --set "=new,open" --set "new=open,rejected" --set "open=resolved"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		transitions, err := parseTransitions(transitionSpecs)
		if err != nil {
			return err
		}

		dto, err := app.UpdateLifecycleHandler.SetTransitions(cmd.Context(), commands.SetTransitionsCommand{
			Name:        args[0],
			Transitions: transitions,
		})
		if err != nil {
			return fmt.Errorf("failed to set transitions: %w", err)
		}

		if jsonOutput {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Transitions of %q updated.\n", dto.Name)
		return nil
	},
}

// parseTransitions turns "from=to1,to2" specs into an adjacency list.
func parseTransitions(specs []string) (map[string][]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(specs))
	for _, spec := range specs {
		from, targets, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid transition %q, use FROM=TO1,TO2", spec)
		}
		from = strings.TrimSpace(from)
		list := out[from]
		for _, to := range strings.Split(targets, ",") {
			if to = strings.TrimSpace(to); to != "" {
				list = append(list, to)
			}
		}
		out[from] = list
	}
	return out, nil
}

func init() {
	transitionsCmd.Flags().StringArrayVar(&transitionSpecs, "set", nil, "transition as FROM=TO1,TO2 (repeatable)")
}
