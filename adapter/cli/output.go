package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

// Theme is the palette used for terminal output. Colors are ANSI 256-color
// codes; lipgloss drops them when stdout is not a terminal.
type Theme struct {
	Header   lipgloss.Color
	Faint    lipgloss.Color
	Initial  lipgloss.Color
	Active   lipgloss.Color
	Inactive lipgloss.Color
	Allowed  lipgloss.Color
	Denied   lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal palette.
var DefaultTheme = Theme{
	Header:   lipgloss.Color("252"),
	Faint:    lipgloss.Color("243"),
	Initial:  lipgloss.Color("75"),
	Active:   lipgloss.Color("114"),
	Inactive: lipgloss.Color("245"),
	Allowed:  lipgloss.Color("78"),
	Denied:   lipgloss.Color("203"),
}

// ClassColor returns the color for a status class.
func (t Theme) ClassColor(class string) lipgloss.Color {
	switch class {
	case domain.ClassInitial:
		return t.Initial
	case domain.ClassActive:
		return t.Active
	case domain.ClassInactive:
		return t.Inactive
	default:
		return t.Faint
	}
}

// Heading renders a bold section title.
func (t Theme) Heading(text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Header).Render(text)
}

// Label renders a fixed-width faint field label.
func (t Theme) Label(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Foreground(t.Faint).Render(text)
}

// Statuses renders a list of statuses in the color of their class.
func (t Theme) Statuses(class string, statuses []string) string {
	if len(statuses) == 0 {
		return lipgloss.NewStyle().Foreground(t.Faint).Render("-")
	}
	return lipgloss.NewStyle().Foreground(t.ClassColor(class)).Render(strings.Join(statuses, ", "))
}

// Verdict renders a yes/no answer.
func (t Theme) Verdict(ok bool) string {
	if ok {
		return lipgloss.NewStyle().Bold(true).Foreground(t.Allowed).Render("allowed")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(t.Denied).Render("denied")
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
