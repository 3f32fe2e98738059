package lifecycle

import (
	"fmt"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [name] [from] [to]",
	Short: "Check whether a status change is allowed",
	Long: `Report whether a lifecycle allows moving from one status to another
and which right the move requires. Status names are matched without
regard to case.

Examples:
  lifecycles lifecycle check default open resolved`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		result, err := app.CheckTransitionHandler.Handle(cmd.Context(), queries.CheckTransitionQuery{
			Lifecycle: args[0],
			From:      args[1],
			To:        args[2],
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return cli.PrintJSON(out, result)
		}

		theme := cli.DefaultTheme
		fmt.Fprintf(out, "%s -> %s: %s\n", result.From, result.To, theme.Verdict(result.Allowed))
		fmt.Fprintf(out, "  %s%s\n", theme.Label("from type", labelWidth), orDash(result.FromType))
		fmt.Fprintf(out, "  %s%s\n", theme.Label("to type", labelWidth), orDash(result.ToType))
		fmt.Fprintf(out, "  %s%s\n", theme.Label("right", labelWidth), result.Right)
		return nil
	},
}
