package styles

import "github.com/charmbracelet/lipgloss"

// Color constants used throughout the UI
var (
	// Primary colors
	Accent    = lipgloss.Color("205") // Pink/Magenta - primary accent
	AccentAlt = lipgloss.Color("141") // Purple - secondary accent
	Success   = lipgloss.Color("118") // Green - success states
	Warning   = lipgloss.Color("214") // Orange - warnings
	Error     = lipgloss.Color("196") // Red - errors
	Info      = lipgloss.Color("75")  // Blue - informational
	Match     = lipgloss.Color("226") // Yellow - search match highlight

	// Neutral colors
	TextNormal   = lipgloss.Color("252") // Light gray - normal text
	TextFaint    = lipgloss.Color("244") // Gray - faint text, gutters, sizes
	TextOnAccent = lipgloss.Color("0")   // Black - text on accent background

	// Border colors
	BorderActive   = lipgloss.Color("205") // Pink - active pane border
	BorderInactive = lipgloss.Color("240") // Dark gray - inactive pane border
)

// Common style components
var (
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	Normal = lipgloss.NewStyle().
		Foreground(TextNormal)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(AccentAlt)

	Faint = lipgloss.NewStyle().
		Faint(true)

	// Selected tree row
	Selected = lipgloss.NewStyle().
			Background(Accent).
			Foreground(TextOnAccent)

	// Highlighted viewer line (line selection)
	Highlight = lipgloss.NewStyle().
			Background(Accent).
			Foreground(TextOnAccent)

	// Search match within the tree
	MatchName = lipgloss.NewStyle().
			Foreground(Match).
			Bold(true)

	// Directory names
	Dir = lipgloss.NewStyle().
		Bold(true)

	// Line number gutter
	Gutter = lipgloss.NewStyle().
		Foreground(TextFaint)

	// Aggregate size badges next to directories
	SizeBadge = lipgloss.NewStyle().
			Foreground(TextFaint)

	StatusError = lipgloss.NewStyle().
			Foreground(Error)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning)

	StatusSuccess = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)
)

// Border styles for panes
func ActiveBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive)
}

func InactiveBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BorderInactive)
}
