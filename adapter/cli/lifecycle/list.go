package lifecycle

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/spf13/cobra"
)

var listTypes []string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List lifecycles",
	Long: `List configured lifecycles in configuration order.

Examples:
  lifecycles lifecycle list
  lifecycles lifecycle list --type ticket --type asset`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		summaries, err := app.ListLifecyclesHandler.Handle(cmd.Context(), queries.ListLifecyclesQuery{Types: listTypes})
		if err != nil {
			return fmt.Errorf("failed to list lifecycles: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return cli.PrintJSON(out, summaries)
		}
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No lifecycles configured.")
			return nil
		}

		theme := cli.DefaultTheme
		fmt.Fprintln(out, theme.Heading(fmt.Sprintf("Lifecycles (%d):", len(summaries))))
		name := lipgloss.NewStyle().Width(24)
		typ := lipgloss.NewStyle().Width(10).Foreground(theme.Faint)
		for _, s := range summaries {
			fmt.Fprintf(out, "%s%s%d statuses, initial %s, inactive %s\n",
				name.Render(s.Name), typ.Render(s.Type), s.Statuses,
				orDash(s.Initial), orDash(s.Inactive))
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	listCmd.Flags().StringSliceVarP(&listTypes, "type", "t", nil, "only list lifecycles of these types")
}
