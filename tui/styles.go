package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Title bar
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Links and the frame border
	EdgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	// Simulation state
	RunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	IdleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Alpha chart
	ChartStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

	HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// nodeStyle colours a node glyph with its group colour.
func nodeStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}
