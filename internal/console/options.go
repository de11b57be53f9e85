package console

import (
	"log/slog"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/compiler"
)

// Option configures a Console.
type Option func(*Console)

// WithLogHandler sets a custom slog handler for the Console.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Console) {
		if handler != nil {
			c.logger = slog.New(handler).WithGroup("console.Console")
		}
	}
}

// WithLogger sets a logger for the Console.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCompiler sets the compiler for submitted lines that are not commands.
func WithCompiler(comp compiler.Compiler) Option {
	return func(c *Console) {
		c.compiler = comp
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(clipboard Clipboard) Option {
	return func(c *Console) {
		c.clipboard = clipboard
	}
}

// WithHistory shares a command history owned by the caller.
func WithHistory(history *History) Option {
	return func(c *Console) {
		if history != nil {
			c.history = history
		}
	}
}

// WithCommands shares a command registry owned by the caller.
func WithCommands(commands *Commands) Option {
	return func(c *Console) {
		if commands != nil {
			c.commands = commands
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) Option {
	return func(c *Console) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithControlBlocker sets what the console calls to suppress game input.
func WithControlBlocker(blocker ControlBlocker) Option {
	return func(c *Console) {
		c.blocker = blocker
	}
}

// WithLinesPerPage sets the page size of the output view.
func WithLinesPerPage(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.linesPerPage = n
		}
	}
}

// WithCloseBlock sets how long game input stays blocked after closing.
func WithCloseBlock(d time.Duration) Option {
	return func(c *Console) {
		if d >= 0 {
			c.closeBlock = d
		}
	}
}

// WithCompileTimeout bounds a single compilation.
func WithCompileTimeout(d time.Duration) Option {
	return func(c *Console) {
		if d > 0 {
			c.compileTimeout = d
		}
	}
}
