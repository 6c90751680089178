package application

import "github.com/charmbracelet/lipgloss"

var (
	primary   = lipgloss.Color("#7C3AED")
	secondary = lipgloss.Color("#10B981")
	muted     = lipgloss.Color("#6B7280")
	warning   = lipgloss.Color("#F59E0B")
	danger    = lipgloss.Color("#EF4444")
	white     = lipgloss.Color("#FFFFFF")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true).
			Width(13)

	focusedStyle = lipgloss.NewStyle().
			Background(primary).
			Foreground(white).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true)

	severityStyle = lipgloss.NewStyle().
			Background(warning).
			Foreground(white).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().Foreground(secondary)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(primary).Bold(true)
	helpTextStyle = lipgloss.NewStyle().Foreground(muted)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)
