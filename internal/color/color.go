// Package color provides color detection and theming for CLI output.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Profile detects the current color profile based on environment variables and flags.
// Returns true if color output should be enabled.
//
// Color is disabled when any of:
//   - NO_COLOR env is set (any value, per https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
//   - noColorFlag is true (--no-color CLI flag)
func Profile(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return true
}

// IsTerminal returns true if the given file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}

// Enabled combines Profile with a terminal check on out.
func Enabled(noColorFlag bool, out *os.File) bool {
	return Profile(noColorFlag) && IsTerminal(out)
}

// Theme holds lipgloss styles for inspect output.
type Theme struct {
	Valid      lipgloss.Style
	Invalid    lipgloss.Style
	Unverified lipgloss.Style
	Header     lipgloss.Style
	Identity   lipgloss.Style
	Muted      lipgloss.Style
}

// NewTheme creates a Theme. When color is false, all styles are empty (no ANSI codes).
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Valid:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // bright green
		Invalid:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Unverified: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // bright yellow
		Header:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Identity:   lipgloss.NewStyle().Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")), // gray
	}
}
