package fancy

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// Tree returns a new tree with the common rounded styling.
func Tree() *tree.Tree {
	return tree.New().
		EnumeratorStyle(BranchStyle).
		Enumerator(tree.RoundedEnumerator)
}

// BranchNode creates a section header node with a dimmed count.
func BranchNode(title, count string) *tree.Tree {
	return Tree().Root(
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			HeaderStyle.Render(title),
			" ",
			InfoStyle.Render(count),
		),
	)
}

// TruncateString truncates a string to maxLength runes, ending in "...".
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) < maxLength {
		return s
	}
	if maxLength <= 3 {
		return "..."[:max(maxLength, 0)]
	}
	return string(runes[:maxLength-3]) + "..."
}
