package fancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlanticdynamic/scripthook/internal/fancy"
)

func TestStylesRender(t *testing.T) {
	for name, render := range map[string]func(string) string{
		"script":    fancy.ScriptText,
		"command":   fancy.CommandText,
		"namespace": fancy.NamespaceText,
		"valid":     fancy.ValidText,
		"error":     fancy.ErrorText,
		"path":      fancy.PathText,
		"state":     fancy.StateText,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, render("sample"), "sample")
		})
	}
}

func TestStateText(t *testing.T) {
	for _, state := range []string{"created", "running", "paused", "aborting", "aborted"} {
		assert.Contains(t, fancy.StateText(state), state)
	}
}

func TestTree(t *testing.T) {
	tree := fancy.Tree()
	tree.Root("Root Node")
	child := fancy.BranchNode("Scripts", "(2)")
	child.Child("demo.lua")
	tree.Child(child)

	out := tree.String()
	assert.Contains(t, out, "Root Node")
	assert.Contains(t, out, "Scripts")
	assert.Contains(t, out, "(2)")
	assert.Contains(t, out, "demo.lua")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter", "Short string", 20, "Short string"},
		{"exactly max", "Exactly twenty chars", 20, "Exactly twenty ch..."},
		{"longer", "This is a very long string that should be truncated", 15, "This is a ve..."},
		{"empty", "", 10, ""},
		{"ellipsis only", "This is a very long string", 3, "..."},
		{"one char and ellipsis", "This is a very long string", 4, "T..."},
		{"tiny max", "Any string", 2, ".."},
		{"multibyte", "héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fancy.TruncateString(tt.in, tt.max))
		})
	}
}
