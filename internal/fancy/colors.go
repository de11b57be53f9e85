// Package fancy provides lipgloss styles for CLI output and the console overlay.
package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette by role. The overlay is drawn over the game, so each color has a
// light and a dark variant and lipgloss picks by terminal background.
var (
	ColorTitle     = lipgloss.AdaptiveColor{Light: "27", Dark: "39"}
	ColorText      = lipgloss.AdaptiveColor{Light: "235", Dark: "15"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "244", Dark: "250"}
	ColorFrame     = lipgloss.AdaptiveColor{Light: "250", Dark: "240"}
	ColorOK        = lipgloss.AdaptiveColor{Light: "28", Dark: "82"}
	ColorAttention = lipgloss.AdaptiveColor{Light: "136", Dark: "228"}
	ColorGroup     = lipgloss.AdaptiveColor{Light: "127", Dark: "201"}
	ColorWarn      = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	ColorFail      = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	ColorPrompt    = lipgloss.AdaptiveColor{Light: "31", Dark: "45"}
)
