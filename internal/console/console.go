// Package console implements the in-game developer console: an editable
// input line with readline style bindings, a paged output history fed by a
// thread-safe queue, and a compile-and-run pipeline for submitted lines.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/compiler"
	"github.com/atlanticdynamic/scripthook/internal/finitestate"
	"github.com/gofrs/uuid/v5"
)

const (
	DefaultLinesPerPage   = 16
	DefaultCloseBlock     = 200 * time.Millisecond
	DefaultCompileTimeout = 5 * time.Second
)

// Clock supplies timestamps and the close-block window.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ControlBlocker suppresses game input for the current frame.
type ControlBlocker interface {
	DisableControls()
}

// Printer is the output side of the console.
type Printer interface {
	PrintInfo(format string, args ...any)
	PrintWarning(format string, args ...any)
	PrintError(format string, args ...any)
}

// Console is the developer console.
//
// Print methods are safe from any goroutine. Everything else belongs to the
// frame goroutine.
type Console struct {
	logger    *slog.Logger
	compiler  compiler.Compiler
	clipboard Clipboard
	history   *History
	commands  *Commands
	clock     Clock
	blocker   ControlBlocker

	linesPerPage   int
	closeBlock     time.Duration
	compileTimeout time.Duration

	output outputQueue

	open        bool
	editor      *Editor
	commandPos  int
	lines       []Line
	page        int
	blockUntil  time.Time
	shouldBlock bool

	compileFSM  finitestate.Machine
	compileDone chan compileResult
}

// New creates a closed console with an empty output history.
func New(opts ...Option) (*Console, error) {
	c := &Console{
		logger:         slog.Default().WithGroup("console.Console"),
		clipboard:      SystemClipboard{},
		clock:          systemClock{},
		linesPerPage:   DefaultLinesPerPage,
		closeBlock:     DefaultCloseBlock,
		compileTimeout: DefaultCompileTimeout,
		commandPos:     -1,
		page:           1,
		compileDone:    make(chan compileResult, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.history == nil {
		c.history = NewHistory()
	}
	if c.commands == nil {
		c.commands = NewCommands()
	}
	c.editor = NewEditor(c.clipboard)

	var err error
	c.compileFSM, err = finitestate.NewCompileMachine(c.logger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create compile state machine: %w", err)
	}
	if err := c.registerBuiltins(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Console) IsOpen() bool          { return c.open }
func (c *Console) Input() string         { return c.editor.Text() }
func (c *Console) Cursor() int           { return c.editor.Cursor() }
func (c *Console) Editor() *Editor       { return c.editor }
func (c *Console) CommandPos() int       { return c.commandPos }
func (c *Console) Page() int             { return c.page }
func (c *Console) History() *History     { return c.history }
func (c *Console) Commands() *Commands   { return c.commands }
func (c *Console) PendingBatches() int   { return c.output.len() }
func (c *Console) Compiling() bool       { return c.compileFSM.GetState() == finitestate.CompileCompiling }
func (c *Console) Lines() []Line         { return append([]Line(nil), c.lines...) }
func (c *Console) LinesPerPage() int     { return c.linesPerPage }

// Compiler returns the compiler used for submitted expressions.
func (c *Console) Compiler() compiler.Compiler { return c.compiler }

// SetCompiler swaps the compiler used for later submissions.
func (c *Console) SetCompiler(comp compiler.Compiler) { c.compiler = comp }

// SetOpen shows or hides the console. Game controls are blocked this frame
// either way, and for the close-block window after hiding.
func (c *Console) SetOpen(open bool) {
	c.open = open
	c.disableControls()
	if !open {
		c.blockUntil = c.clock.Now().Add(c.closeBlock)
		c.shouldBlock = true
	}
}

// Toggle flips the open state.
func (c *Console) Toggle() { c.SetOpen(!c.open) }

// Clear empties the output history and returns to the newest page.
func (c *Console) Clear() {
	c.lines = nil
	c.page = 1
}

// ClearInput empties the input line.
func (c *Console) ClearInput() {
	c.editor.Clear()
}

func (c *Console) PrintInfo(format string, args ...any)    { c.printf(SeverityInfo, format, args) }
func (c *Console) PrintWarning(format string, args ...any) { c.printf(SeverityWarning, format, args) }
func (c *Console) PrintError(format string, args ...any)   { c.printf(SeverityError, format, args) }

func (c *Console) printf(sev Severity, format string, args []any) {
	msg := format
	if len(args) > 0 {
		s, err := Format(format, args...)
		if err != nil {
			c.logger.Debug("Invalid console format string", "format", format, "error", err)
		} else {
			msg = s
		}
	}
	c.print(sev, msg)
}

// print enqueues msg as one batch without placeholder expansion.
func (c *Console) print(sev Severity, msg string) {
	texts := splitLines(msg)
	if len(texts) == 0 {
		return
	}
	now := c.clock.Now()
	batch := make([]Line, len(texts))
	for i, text := range texts {
		batch[i] = Line{Time: now, Severity: sev, Text: text}
	}
	c.output.push(batch)
}

// Tick runs once per frame: it finishes a completed compilation, moves at
// most one output batch into the history, and blocks game controls while
// open or recently closed.
func (c *Console) Tick(ctx context.Context) {
	select {
	case res := <-c.compileDone:
		c.finishCompile(ctx, res)
	default:
	}

	if batch, ok := c.output.pop(); ok {
		c.lines = append(c.lines, batch...)
	}

	if c.open {
		c.disableControls()
		return
	}
	if !c.shouldBlock {
		return
	}
	if c.clock.Now().Before(c.blockUntil) {
		c.disableControls()
		return
	}
	c.shouldBlock = false
}

func (c *Console) disableControls() {
	if c.blocker != nil {
		c.blocker.DisableControls()
	}
}

// MaxPage is the oldest page reachable, at least 1.
func (c *Console) MaxPage() int {
	return max(1, (len(c.lines)+c.linesPerPage-1)/c.linesPerPage)
}

// PageUp moves toward older output.
func (c *Console) PageUp() {
	if c.page < c.MaxPage() {
		c.page++
	}
}

// PageDown moves toward newer output.
func (c *Console) PageDown() {
	if c.page > 1 {
		c.page--
	}
}

// VisibleLines returns the lines shown on the current page.
func (c *Console) VisibleLines() []Line {
	end := len(c.lines) - c.linesPerPage*(c.page-1)
	if end <= 0 {
		return nil
	}
	start := max(0, end-c.linesPerPage)
	return c.lines[start:end]
}

// HistoryUp recalls the next older command.
func (c *Console) HistoryUp() {
	n := c.history.Len()
	if n == 0 || c.commandPos >= n-1 {
		return
	}
	c.commandPos++
	c.recall()
}

// HistoryDown recalls the next newer command.
func (c *Console) HistoryDown() {
	if c.history.Len() == 0 || c.commandPos <= 0 {
		return
	}
	c.commandPos--
	c.recall()
}

func (c *Console) recall() {
	if line, ok := c.history.Recent(c.commandPos); ok {
		c.editor.SetText(line)
	}
}

// RegisterCommand adds a command to the shared registry.
func (c *Console) RegisterCommand(cmd Command) error {
	return c.commands.Register(cmd)
}

// UnregisterCommands removes a namespace of commands.
func (c *Console) UnregisterCommands(namespace string) int {
	return c.commands.Unregister(namespace)
}

// Submit runs the input line. Registered commands run immediately; any other
// line is compiled in the background and invoked on a later Tick. Submitting
// an empty line or while a compilation is in flight does nothing.
func (c *Console) Submit(ctx context.Context) {
	if c.editor.Empty() || c.Compiling() {
		return
	}
	line := c.editor.Text()
	c.commandPos = -1
	c.history.Add(line)

	if c.runCommand(ctx, line) {
		c.editor.Clear()
		return
	}
	comp := c.compiler
	if comp == nil {
		c.print(SeverityError, "Couldn't compile input expression: "+line)
		c.print(SeverityError, "   at line 0: no compiler configured")
		c.editor.Clear()
		return
	}
	if err := c.compileFSM.Transition(finitestate.CompileCompiling); err != nil {
		c.logger.Error("Failed to start compilation", "error", err)
		return
	}

	id, err := uuid.NewV4()
	if err != nil {
		c.logger.Debug("Failed to generate compile job ID", "error", err)
	}
	go c.compile(ctx, comp, id, line)
}

// runCommand executes line when it calls a registered command.
func (c *Console) runCommand(ctx context.Context, line string) bool {
	parsed, ok, err := parseCall(line)
	if !ok {
		return false
	}
	if err != nil {
		// Not a usable command call; the compiler may still accept it.
		return false
	}
	cmd, found, err := c.commands.resolve(parsed)
	if !found {
		return false
	}
	if err != nil {
		c.print(SeverityError, "[Exception]: "+err.Error())
		return true
	}
	c.report(compiler.Invoke(ctx, compiler.UnitFunc(func(ctx context.Context) (any, error) {
		return cmd.Run(ctx, parsed.args)
	})))
	return true
}

// report prints the outcome of an invocation.
func (c *Console) report(result any, err error) {
	if err != nil {
		c.print(SeverityError, "[Exception]: "+compiler.InnermostCause(err).Error())
		return
	}
	if result != nil {
		c.print(SeverityInfo, "[Return Value]: "+formatValue(result))
	}
}
