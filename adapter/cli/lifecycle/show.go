package lifecycle

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/spf13/cobra"
)

const labelWidth = 18

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a lifecycle",
	Long: `Show the statuses, transitions, rights and actions of a lifecycle.
Without a name the global lifecycle is shown: the union of every
configured lifecycle.

Examples:
  lifecycles lifecycle show default
  lifecycles lifecycle show --json approvals`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		dto, err := app.GetLifecycleHandler.Handle(cmd.Context(), queries.GetLifecycleQuery{Name: name})
		if err != nil {
			return err
		}

		if jsonOutput {
			return cli.PrintJSON(cmd.OutOrStdout(), dto)
		}
		printLifecycle(cmd.OutOrStdout(), dto)
		return nil
	},
}

func printLifecycle(out io.Writer, dto *application.LifecycleDTO) {
	theme := cli.DefaultTheme
	title := dto.Name
	if title == "" {
		title = "(global)"
	}
	fmt.Fprintf(out, "%s %s\n", theme.Heading(title), theme.Label("["+dto.Type+"]", 0))

	row := func(label, value string) {
		fmt.Fprintf(out, "  %s%s\n", theme.Label(label, labelWidth), value)
	}
	row("initial", theme.Statuses(domain.ClassInitial, dto.Initial))
	row("active", theme.Statuses(domain.ClassActive, dto.Active))
	row("inactive", theme.Statuses(domain.ClassInactive, dto.Inactive))
	row("default initial", orDash(dto.DefaultInitial))
	row("default inactive", orDash(dto.DefaultInactive))
	row("create statuses", orDash(strings.Join(dto.CreateStatuses, ", ")))

	if len(dto.Defaults) > 0 {
		fmt.Fprintln(out, theme.Heading("Defaults"))
		for _, situation := range sortedKeys(dto.Defaults) {
			row(situation, dto.Defaults[situation])
		}
	}

	if len(dto.Transitions) > 0 {
		fmt.Fprintln(out, theme.Heading("Transitions"))
		for _, from := range sortedKeys(dto.Transitions) {
			label := from
			if label == "" {
				label = "(create)"
			}
			row(label, orDash(strings.Join(dto.Transitions[from], ", ")))
		}
	}

	if len(dto.Rights) > 0 {
		fmt.Fprintln(out, theme.Heading("Rights"))
		for _, key := range sortedKeys(dto.Rights) {
			fmt.Fprintf(out, "  %s  %s\n", key, dto.Rights[key])
		}
	}

	if len(dto.Actions) > 0 {
		fmt.Fprintln(out, theme.Heading("Actions"))
		for _, action := range dto.Actions {
			printAction(out, action)
		}
	}
}

func printAction(out io.Writer, action domain.ActionEntry) {
	line := fmt.Sprintf("  %s  %s", domain.TransitionKey(action.From, action.To), action.Label)
	if action.Update != domain.UpdateNone {
		line += " (" + action.Update + ")"
	}
	fmt.Fprintln(out, line)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
