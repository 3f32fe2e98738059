package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/infrastructure/persistence"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/security"
)

// ErrConfigIssues is returned by validate when the stored configuration has
// problems.
var ErrConfigIssues = errors.New("lifecycle configuration has issues")

var registryJSON bool

var rightsListCmd = &cobra.Command{
	Use:   "rights",
	Short: "List the rights lifecycles require",
	Long: `List every right named by a lifecycle right table together with the
description published to the permission catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.RightsHandler == nil {
			return fmt.Errorf("app not initialized")
		}

		rights := app.RightsHandler.Handle(cmd.Context())
		out := cmd.OutOrStdout()
		if registryJSON {
			return PrintJSON(out, rights)
		}
		if len(rights) == 0 {
			fmt.Fprintln(out, "No lifecycle rights.")
			return nil
		}

		width := 0
		for _, r := range rights {
			width = max(width, lipgloss.Width(r.Name))
		}
		name := lipgloss.NewStyle().Bold(true).Width(width + 2)
		for _, r := range rights {
			fmt.Fprintf(out, "%s%s\n", name.Render(r.Name), r.Description)
		}
		return nil
	},
}

var localizeCmd = &cobra.Command{
	Use:   "localize",
	Short: "List strings that need translation",
	Long:  `List every status name, action label and right description used by the configured lifecycles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.LocalizationHandler == nil {
			return fmt.Errorf("app not initialized")
		}

		strs := app.LocalizationHandler.Handle(cmd.Context())
		out := cmd.OutOrStdout()
		if registryJSON {
			if strs == nil {
				strs = []string{}
			}
			return PrintJSON(out, strs)
		}
		for _, s := range strs {
			fmt.Fprintln(out, s)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a lifecycle configuration",
	Long: `Report inconsistencies in the stored configuration, or in file when one
is given: statuses listed in more than one class, defaults or transitions
naming unknown statuses, malformed right keys and invalid action
follow-ups. The registry tolerates all of them; validate exits non-zero
when any is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := validateIssues(cmd, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if registryJSON {
			if err := PrintJSON(out, issues); err != nil {
				return err
			}
		} else if len(issues) == 0 {
			fmt.Fprintln(out, "Configuration OK.")
		} else {
			for _, issue := range issues {
				fmt.Fprintln(out, issue.String())
			}
		}

		if len(issues) > 0 {
			return fmt.Errorf("%w: %d found", ErrConfigIssues, len(issues))
		}
		return nil
	},
}

// validateIssues lints the file named in args, or the stored configuration.
func validateIssues(cmd *cobra.Command, args []string) ([]domain.Issue, error) {
	if len(args) == 1 {
		data, err := security.SafeReadFile(args[0])
		if err != nil {
			return nil, err
		}
		cfg, err := persistence.Decode(data, persistence.FormatFromPath(args[0]))
		if err != nil {
			return nil, err
		}
		if issues := domain.ValidateConfig(cfg); issues != nil {
			return issues, nil
		}
		return []domain.Issue{}, nil
	}

	app := GetApp()
	if app == nil || app.ValidateConfigHandler == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app.ValidateConfigHandler.Handle(cmd.Context())
}

func init() {
	for _, cmd := range []*cobra.Command{rightsListCmd, localizeCmd, validateCmd} {
		cmd.Flags().BoolVar(&registryJSON, "json", false, "print JSON instead of text")
		rootCmd.AddCommand(cmd)
	}
}
