package scripts

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type printed struct {
	Level  string
	Format string
	Args   []any
}

type recordingPrinter struct {
	mu    sync.Mutex
	lines []printed
}

func (p *recordingPrinter) add(level, format string, args []any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, printed{Level: level, Format: format, Args: args})
}

func (p *recordingPrinter) PrintInfo(format string, args ...any)    { p.add("info", format, args) }
func (p *recordingPrinter) PrintWarning(format string, args ...any) { p.add("warn", format, args) }
func (p *recordingPrinter) PrintError(format string, args ...any)   { p.add("error", format, args) }

// texts renders every line as "level: format args".
func (p *recordingPrinter) texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.lines))
	for i, l := range p.lines {
		if len(l.Args) == 0 {
			out[i] = fmt.Sprintf("%s: %s", l.Level, l.Format)
			continue
		}
		out[i] = fmt.Sprintf("%s: %s %v", l.Level, l.Format, l.Args)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
