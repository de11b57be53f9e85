// Package host runs the frame loop that drives the scheduler and the
// developer console, and routes keyboard input between them.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/compiler"
	"github.com/atlanticdynamic/scripthook/internal/config"
	"github.com/atlanticdynamic/scripthook/internal/console"
	"github.com/atlanticdynamic/scripthook/internal/finitestate"
	"github.com/atlanticdynamic/scripthook/internal/input"
	"github.com/atlanticdynamic/scripthook/internal/logging"
	"github.com/atlanticdynamic/scripthook/internal/scheduler"
	"github.com/atlanticdynamic/scripthook/internal/scripts"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable   = (*Runner)(nil)
	_ supervisor.Reloadable = (*Runner)(nil)
	_ supervisor.Stateable  = (*Runner)(nil)
)

// keyBufferSize bounds the key events buffered between two frames.
const keyBufferSize = 256

// Clock supplies the time for the console and the scripts.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Overlay draws the console text on screen.
type Overlay interface {
	Draw(frame string)
}

// Runner owns the scheduler, the console and the script loader, and advances
// them once per frame. Frame must only run on one goroutine; KeyEvent,
// Execute and Reload are safe from any goroutine.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	logHandler slog.Handler
	fsm        finitestate.Machine

	parentCtx context.Context
	runCtx    context.Context
	runCancel context.CancelFunc

	invoker    NativeInvoker
	clipboard  console.Clipboard
	history    *console.History
	clock      Clock
	overlay    Overlay
	transcript io.Writer
	reporter   scheduler.ErrorReporter

	sched   *scheduler.Scheduler
	console *console.Console
	loader  *scripts.Loader
	logs    *scripts.LogBook

	openKey   input.Key
	reloadKey input.Key

	keys         chan input.KeyEvent
	pendingMu    sync.Mutex
	pendingLines []string
	linesSeen    int

	reloadMu        sync.Mutex
	reloadRequested bool
	reloadWaiters   []chan error
}

// NewRunner builds the host for cfg. A nil cfg uses the defaults.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	r := &Runner{
		cfg:        cfg,
		logHandler: slog.Default().Handler(),
		parentCtx:  context.Background(),
		clock:      systemClock{},
		openKey:    cfg.Console.OpenKeyCode(),
		reloadKey:  cfg.Host.ReloadKeyCode(),
		keys:       make(chan input.KeyEvent, keyBufferSize),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = slog.New(r.logHandler).WithGroup("host.Runner")

	fsm, err := finitestate.New(r.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = fsm

	if err := r.buildConsole(); err != nil {
		return nil, err
	}

	// Everything below the console also reports its warnings there.
	mirrored := logging.NewTee(r.logHandler, console.NewHandler(r.console, slog.LevelWarn))

	reporters := scheduler.MultiReporter{scheduler.NewLogReporter(slog.New(mirrored).WithGroup("scheduler.LogReporter"))}
	if r.reporter != nil {
		reporters = append(reporters, r.reporter)
	}
	r.sched = scheduler.New(
		scheduler.WithLogHandler(mirrored),
		scheduler.WithReporter(reporters),
	)

	r.logs = scripts.NewLogBook(mirrored, scripts.DefaultLogBookSize)
	r.loader = scripts.NewLoader(r.sched,
		scripts.WithLogHandler(mirrored),
		scripts.WithConfig(cfg),
		scripts.WithPrinter(r.console),
		scripts.WithLogBook(r.logs),
		scripts.WithClock(r.clock),
	)

	if err := r.registerCommands(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) buildConsole() error {
	clipboard := r.clipboard
	if clipboard == nil {
		clipboard = console.SystemClipboard{}
	}
	opts := []console.Option{
		console.WithLogHandler(r.logHandler),
		console.WithClipboard(clipboard),
		console.WithHistory(r.history),
		console.WithClock(r.clock),
		console.WithLinesPerPage(r.cfg.Console.LinesPerPage),
		console.WithCloseBlock(r.cfg.Console.CloseBlock.AsDuration()),
		console.WithCompileTimeout(r.cfg.Console.CompileTimeout.AsDuration()),
	}
	if r.invoker != nil {
		opts = append(opts, console.WithControlBlocker(
			NewControlBlocker(r.invoker, r.logger.WithGroup("ControlBlocker")),
		))
	}

	c, err := console.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create console: %w", err)
	}
	r.console = c

	comp, err := compiler.New(r.cfg.Console.Language,
		compiler.WithLogHandler(r.logHandler),
		compiler.WithOutput(newConsoleWriter(c)),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s compiler: %w", r.cfg.Console.Language, err)
	}
	c.SetCompiler(comp)
	return nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "host.Runner"
}

func (r *Runner) Console() *console.Console       { return r.console }
func (r *Runner) Scheduler() *scheduler.Scheduler { return r.sched }
func (r *Runner) Logs() *scripts.LogBook          { return r.logs }

// Run loads the scripts and drives frames until the context is canceled or
// Stop is called.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting Runner")

	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}
	r.runCtx, r.runCancel = context.WithCancel(ctx)
	defer r.runCancel()

	if _, err := r.loader.Load(r.runCtx); err != nil {
		// Scripts that failed to load have been reported; the rest run.
		r.logger.Warn("Some scripts failed to load", "error", err)
	}

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	ticker := time.NewTicker(r.cfg.Host.FrameInterval.AsDuration())
	defer ticker.Stop()

	for {
		select {
		case <-r.parentCtx.Done():
			r.logger.Debug("Parent context canceled")
			return r.shutdown(ctx)
		case <-r.runCtx.Done():
			r.logger.Debug("Run context canceled")
			return r.shutdown(ctx)
		case <-ticker.C:
			r.Frame(r.runCtx)
		}
	}
}

func (r *Runner) shutdown(ctx context.Context) error {
	r.logger.Info("Runner shutting down")

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	// Abort notifications still run after cancellation.
	r.sched.AbortAll(context.WithoutCancel(ctx))

	// No frame will apply a reload requested now.
	if waiters, ok := r.takeReload(); ok {
		for _, w := range waiters {
			w <- fmt.Errorf("%w: shutting down", ErrNotRunning)
		}
	}

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Error("Failed to transition to stopping state", "error", err)
	}
	if r.runCancel != nil {
		r.runCancel()
	}
}

// Reload implements the supervisor.Reloadable interface. The scripts are
// reloaded on the next frame; Reload blocks until that has happened.
func (r *Runner) Reload(ctx context.Context) error {
	if !r.IsRunning() {
		return fmt.Errorf("%w: %s", ErrNotRunning, r.GetState())
	}
	runCtx := r.runCtx
	done := make(chan error, 1)
	r.reloadMu.Lock()
	r.reloadRequested = true
	r.reloadWaiters = append(r.reloadWaiters, done)
	r.reloadMu.Unlock()
	r.logger.Debug("Reload requested")

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-runCtx.Done():
		return fmt.Errorf("%w: %w", ErrNotRunning, runCtx.Err())
	case <-r.parentCtx.Done():
		return r.parentCtx.Err()
	}
}

// RequestReload asks for a reload on the next frame without waiting for it.
func (r *Runner) RequestReload() {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	r.reloadRequested = true
}

// takeReload consumes a pending reload request along with everyone waiting
// on it.
func (r *Runner) takeReload() ([]chan error, bool) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	if !r.reloadRequested {
		return nil, false
	}
	waiters := r.reloadWaiters
	r.reloadRequested = false
	r.reloadWaiters = nil
	return waiters, true
}

// KeyEvent buffers a key event for routing on the next frame.
func (r *Runner) KeyEvent(ev input.KeyEvent) {
	select {
	case r.keys <- ev:
	default:
		r.logger.Warn("Key buffer full, dropping event", "event", ev.String())
	}
}

// Execute submits line to the console on a later frame, as if it had been
// typed and confirmed with Enter.
func (r *Runner) Execute(line string) {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	r.pendingLines = append(r.pendingLines, line)
}

// Frame advances the host by one frame: it routes buffered keys, applies a
// pending reload, ticks the scripts and then the console.
func (r *Runner) Frame(ctx context.Context) {
	r.routeKeys(ctx)

	if waiters, ok := r.takeReload(); ok {
		err := r.reload(ctx)
		for _, w := range waiters {
			w <- err
		}
	}

	r.sched.Tick(ctx)
	r.sched.Prune()

	r.submitPending(ctx)
	r.console.Tick(ctx)

	r.writeTranscript()
	if r.overlay != nil && r.console.IsOpen() {
		r.overlay.Draw(r.console.Render())
	}
}

func (r *Runner) routeKeys(ctx context.Context) {
	for {
		select {
		case ev := <-r.keys:
			r.route(ctx, ev)
		default:
			return
		}
	}
}

// route hands one key event to the console or the scripts. The toggle key
// always belongs to the console, and an open console swallows every key.
func (r *Runner) route(ctx context.Context, ev input.KeyEvent) {
	switch {
	case ev.Key == r.openKey:
		if ev.Down {
			r.console.Toggle()
		}
	case r.console.IsOpen():
		r.console.HandleKey(ctx, ev)
	case ev.Key == r.reloadKey:
		if ev.Down {
			if err := r.reload(ctx); err != nil {
				r.logger.Warn("Reload failed", "error", err)
			}
		}
	default:
		r.sched.DispatchKey(ev)
	}
}

// reload aborts every script, then loads the scripts again. The console and
// its history survive.
func (r *Runner) reload(ctx context.Context) error {
	if !r.fsm.TransitionBool(finitestate.StatusReloading) {
		r.logger.Warn("Reload skipped", "state", r.fsm.GetState())
		return fmt.Errorf("%w: %s", ErrNotRunning, r.fsm.GetState())
	}

	r.sched.AbortAll(ctx)
	_, loadErr := r.loader.Load(ctx)
	if loadErr != nil {
		r.logger.Warn("Some scripts failed to load", "error", loadErr)
	}

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		r.logger.Error("Failed to transition to running state", "error", err)
		return errors.Join(loadErr, err)
	}
	return loadErr
}

func (r *Runner) submitPending(ctx context.Context) {
	if r.console.Compiling() {
		return
	}
	r.pendingMu.Lock()
	if len(r.pendingLines) == 0 {
		r.pendingMu.Unlock()
		return
	}
	line := r.pendingLines[0]
	r.pendingLines = r.pendingLines[1:]
	r.pendingMu.Unlock()

	r.console.Editor().SetText(line)
	r.console.Submit(ctx)
}

func (r *Runner) writeTranscript() {
	if r.transcript == nil {
		return
	}
	lines := r.console.Lines()
	if len(lines) < r.linesSeen {
		// The console was cleared.
		r.linesSeen = 0
	}
	for _, line := range lines[r.linesSeen:] {
		if _, err := fmt.Fprintln(r.transcript, line.String()); err != nil {
			r.logger.Debug("Failed to write transcript", "error", err)
			break
		}
	}
	r.linesSeen = len(lines)
}
