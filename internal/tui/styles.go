package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by all dashboard views.
var (
	ColorAccent   = lipgloss.Color("39")
	ColorMuted    = lipgloss.Color("241")
	ColorError    = lipgloss.Color("196")
	ColorPositive = lipgloss.Color("42")
	ColorNegative = lipgloss.Color("196")
)

// Text styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle  = lipgloss.NewStyle().Bold(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorError)

	PositiveStyle = lipgloss.NewStyle().Foreground(ColorPositive)
	NegativeStyle = lipgloss.NewStyle().Foreground(ColorNegative)
)

// Tab bar styles.
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(ColorAccent).
			Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)
)

// Table styles applied to bubbles tables.
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("57"))
)

// changeStyle picks the signed-change color for a delta.
func changeStyle(v float64) lipgloss.Style {
	if v < 0 {
		return NegativeStyle
	}
	return PositiveStyle
}
