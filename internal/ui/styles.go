package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. A single teal accent keeps the sync and review
// screens readable on both dark and light terminals.
const (
	ColorTeal     = "43"  // Primary accent
	ColorTealDim  = "30"  // Dimmed accent for inactive elements
	ColorWhite    = "255" // Headers
	ColorGray     = "245" // Labels, secondary text
	ColorDarkGray = "238" // Borders, separators
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
)

// Styles holds the lipgloss styles shared by the TUI screens.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Active  lipgloss.Style

	Border    lipgloss.Style
	Sparkline lipgloss.Style
	Speed     lipgloss.Style
	Label     lipgloss.Style
	TableHead lipgloss.Style
}

// DefaultStyles returns the styled components for TUI mode.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorTeal)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTeal)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Active:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorTeal)),

		Border:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Sparkline: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTeal)),
		Speed:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		TableHead: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle(),
		Success:   lipgloss.NewStyle(),
		Warning:   lipgloss.NewStyle(),
		Error:     lipgloss.NewStyle(),
		Dim:       lipgloss.NewStyle(),
		Active:    lipgloss.NewStyle(),
		Border:    lipgloss.NewStyle(),
		Sparkline: lipgloss.NewStyle(),
		Speed:     lipgloss.NewStyle(),
		Label:     lipgloss.NewStyle(),
		TableHead: lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles for the color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
