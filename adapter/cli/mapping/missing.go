package mapping

import (
	"fmt"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/spf13/cobra"
)

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List lifecycle pairs of the same type without a map",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		pairs := app.MapsHandler.Unmapped(cmd.Context())

		out := cmd.OutOrStdout()
		if jsonOutput {
			return cli.PrintJSON(out, pairs)
		}
		if len(pairs) == 0 {
			fmt.Fprintln(out, "Every lifecycle pair has a map.")
			return nil
		}
		for _, p := range pairs {
			fmt.Fprintf(out, "%s -> %s\n", p.From, p.To)
		}
		return nil
	},
}
