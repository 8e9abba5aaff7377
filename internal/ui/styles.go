package ui

import "github.com/charmbracelet/lipgloss"

var (
	Cyan    = lipgloss.Color("#22D3EE")
	Emerald = lipgloss.Color("#34D399")
	Rose    = lipgloss.Color("#FB7185")
	Amber   = lipgloss.Color("#FBBF24")
	Muted   = lipgloss.Color("#94A3B8")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(Muted)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Emerald)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Rose)

	LabelStyle = lipgloss.NewStyle().
			Bold(true)
)

// Separator returns a rule of the given width.
func Separator(width int) string {
	if width <= 0 {
		return ""
	}
	b := make([]byte, width)
	for i := range b {
		b[i] = '='
	}
	return SeparatorStyle.Render(string(b))
}
