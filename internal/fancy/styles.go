package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorTitle).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorFrame)

	ScriptStyle = lipgloss.NewStyle().
			Foreground(ColorOK)

	CommandStyle = lipgloss.NewStyle().
			Foreground(ColorAttention)

	NamespaceStyle = lipgloss.NewStyle().
			Foreground(ColorGroup)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorFail)
)

// Console overlay styles.
var (
	TimestampStyle = lipgloss.NewStyle().Foreground(ColorPrompt)
	TextStyle      = lipgloss.NewStyle().Foreground(ColorText)
	SeverityInfo   = lipgloss.NewStyle().Foreground(ColorTitle)
	SeverityWarn   = lipgloss.NewStyle().Foreground(ColorWarn)
	SeverityError  = lipgloss.NewStyle().Foreground(ColorFail)
	PromptStyle    = lipgloss.NewStyle().Foreground(ColorPrompt).Bold(true)
	BusyStyle      = lipgloss.NewStyle().Foreground(ColorFrame)
	CursorStyle    = lipgloss.NewStyle().Reverse(true)
	PagerStyle     = lipgloss.NewStyle().Foreground(ColorMuted)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFrame).
			Padding(0, 1)
)

// ScriptText styles a script name
func ScriptText(text string) string {
	return ScriptStyle.Render(text)
}

// CommandText styles a console command name
func CommandText(text string) string {
	return CommandStyle.Render(text)
}

// NamespaceText styles a console command namespace
func NamespaceText(text string) string {
	return NamespaceStyle.Render(text)
}

// ValidText styles valid status text (green)
func ValidText(text string) string {
	return ScriptStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// StateText styles a script lifecycle state by how healthy it is.
func StateText(state string) string {
	switch state {
	case "running":
		return ScriptStyle.Render(state)
	case "paused", "created":
		return CommandStyle.Render(state)
	default:
		return ErrorStyle.Render(state)
	}
}
