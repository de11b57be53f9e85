package console

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/scripthook/internal/fancy"
	"github.com/charmbracelet/lipgloss"
)

const prompt = "$> "

// Render draws the overlay for the current frame, or returns "" while the
// console is closed.
func (c *Console) Render() string {
	if !c.open {
		return ""
	}

	visible := c.VisibleLines()
	rows := make([]string, 0, c.linesPerPage)
	for _, l := range visible {
		rows = append(rows, renderLine(l))
	}
	for len(rows) < c.linesPerPage {
		rows = append(rows, "")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(rows, "\n"),
		c.renderInput(),
		fancy.PagerStyle.Render(fmt.Sprintf("Page %d/%d", c.page, c.MaxPage())),
	)
	return fancy.OverlayStyle.Render(body)
}

func renderLine(l Line) string {
	tag := fancy.SeverityInfo
	switch l.Severity {
	case SeverityWarning:
		tag = fancy.SeverityWarn
	case SeverityError:
		tag = fancy.SeverityError
	}
	return fancy.TimestampStyle.Render("["+l.Time.Format("15:04:05")+"]") + " " +
		"[" + tag.Render(l.Severity.String()) + "] " +
		fancy.TextStyle.Render(l.Text)
}

func (c *Console) renderInput() string {
	text := []rune(c.editor.Text())
	cursor := c.editor.Cursor()
	style := fancy.TextStyle
	if c.Compiling() {
		style = fancy.BusyStyle
	}

	// The cursor blinks at 1Hz and is hidden while compiling.
	if c.Compiling() || c.clock.Now().UnixMilli()%1000 >= 500 {
		return fancy.PromptStyle.Render(prompt) + style.Render(string(text))
	}

	under := " "
	after := ""
	if cursor < len(text) {
		under = string(text[cursor])
		after = string(text[cursor+1:])
	}
	return fancy.PromptStyle.Render(prompt) +
		style.Render(string(text[:cursor])) +
		fancy.CursorStyle.Render(under) +
		style.Render(after)
}
