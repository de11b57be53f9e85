package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/finitestate"
	"github.com/atlanticdynamic/scripthook/internal/input"
	"github.com/gofrs/uuid/v5"
)

// Callbacks is the set of handlers a script registers with the scheduler.
// Any of them may be nil.
type Callbacks struct {
	KeyDown func(ctx context.Context, ev input.KeyEvent) error
	KeyUp   func(ctx context.Context, ev input.KeyEvent) error
	Tick    func(ctx context.Context) error
	Aborted func(ctx context.Context) error
}

// Clock supplies the time used for resume scheduling.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ScriptOption configures a Script.
type ScriptOption func(*Script)

// WithScriptLogHandler sets a custom slog handler for the Script.
func WithScriptLogHandler(handler slog.Handler) ScriptOption {
	return func(s *Script) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("scheduler.Script")
		}
	}
}

// WithScriptLogger sets a logger for the Script.
func WithScriptLogger(logger *slog.Logger) ScriptOption {
	return func(s *Script) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) ScriptOption {
	return func(s *Script) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithInterval sets the minimum time between ticks. Negative values are
// treated as zero.
func WithInterval(d time.Duration) ScriptOption {
	return func(s *Script) {
		s.interval = max(d, 0)
	}
}

// WithFilename records the file the script was loaded from.
func WithFilename(filename string) ScriptOption {
	return func(s *Script) {
		s.filename = filename
	}
}

// WithHandle attaches the runtime object that owns the callbacks.
func WithHandle(handle any) ScriptOption {
	return func(s *Script) {
		s.handle = handle
	}
}

// Script is one loaded plugin scheduled cooperatively on the frame goroutine.
//
// Timing state is owned by the frame goroutine. Key events may be enqueued
// from any goroutine.
type Script struct {
	id       uuid.UUID
	name     string
	filename string
	handle   any
	cb       Callbacks

	logger *slog.Logger
	clock  Clock
	fsm    finitestate.Machine

	interval   time.Duration
	resumeTime time.Time
	// waited is set when the script called Wait during the current main loop.
	waited bool

	keys keyQueue
}

// NewScript creates a script in the created state.
func NewScript(name string, cb Callbacks, opts ...ScriptOption) (*Script, error) {
	if name == "" {
		return nil, ErrEmptyScriptName
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate script ID: %w", err)
	}

	s := &Script{
		id:     id,
		name:   name,
		cb:     cb,
		logger: slog.Default().WithGroup("scheduler.Script"),
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("script", name)

	s.fsm, err = finitestate.NewScriptMachine(s.logger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create script state machine: %w", err)
	}
	return s, nil
}

func (s *Script) ID() uuid.UUID         { return s.id }
func (s *Script) Name() string          { return s.name }
func (s *Script) Filename() string      { return s.filename }
func (s *Script) Handle() any           { return s.handle }
func (s *Script) String() string        { return s.name }
func (s *Script) State() string         { return s.fsm.GetState() }
func (s *Script) IsRunning() bool       { return s.State() == finitestate.ScriptRunning }
func (s *Script) IsPaused() bool        { return s.State() == finitestate.ScriptPaused }
func (s *Script) IsAborted() bool       { return s.State() == finitestate.ScriptAborted }
func (s *Script) PendingKeys() int      { return s.keys.len() }
func (s *Script) ResumeTime() time.Time { return s.resumeTime }

// Interval is the minimum time between two ticks.
func (s *Script) Interval() time.Duration { return s.interval }

// SetInterval changes the tick interval; negative values are clamped to zero.
func (s *Script) SetInterval(d time.Duration) { s.interval = max(d, 0) }

// abortPending reports whether the abort notification still has to fire.
func (s *Script) abortPending() bool { return s.State() == finitestate.ScriptAborting }

// Start makes the script eligible for ticking.
func (s *Script) Start() error {
	switch s.State() {
	case finitestate.ScriptCreated:
	case finitestate.ScriptAborting, finitestate.ScriptAborted:
		return fmt.Errorf("%w: %s", ErrScriptAborted, s.name)
	default:
		return fmt.Errorf("%w: %s", ErrAlreadyStarted, s.name)
	}
	if err := s.fsm.Transition(finitestate.ScriptRunning); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	s.logger.Info(fmt.Sprintf("Started script %s.", s.name))
	return nil
}

// Pause stops ticking until Resume. Pausing a paused or stopped script is a
// no-op.
func (s *Script) Pause() {
	if !s.fsm.TransitionBool(finitestate.ScriptPaused) {
		return
	}
	s.logger.Info(fmt.Sprintf("Paused script %s.", s.name))
}

// Resume undoes Pause. Resuming a script that is not paused is a no-op.
func (s *Script) Resume() {
	if s.fsm.TransitionIfCurrentState(finitestate.ScriptPaused, finitestate.ScriptRunning) != nil {
		return
	}
	s.logger.Info(fmt.Sprintf("Resumed script %s.", s.name))
}

// Abort stops the script for good. The abort notification fires on the next
// main loop. Aborting twice is a no-op.
func (s *Script) Abort() {
	if !s.fsm.TransitionBool(finitestate.ScriptAborting) {
		return
	}
	s.keys.clear()
	s.logger.Debug("Abort requested")
}

// Wait delays the next tick until d from now. Callers outside the script's
// own callbacks should go through Scheduler.Wait.
func (s *Script) Wait(d time.Duration) {
	s.resumeTime = s.clock.Now().Add(max(d, 0))
	s.waited = true
}

// EnqueueKey buffers a key event for delivery on the next main loop.
func (s *Script) EnqueueKey(ev input.KeyEvent) {
	s.keys.push(ev)
}

// mainLoop advances the script by one frame.
func (s *Script) mainLoop(ctx context.Context, reporter ErrorReporter) {
	if !s.abortPending() {
		if !s.IsRunning() || s.clock.Now().Before(s.resumeTime) {
			return
		}

		s.waited = false
		s.dispatchKeys(ctx, reporter)

		// A key handler may have paused or aborted the script.
		if s.cb.Tick != nil && s.IsRunning() {
			if err := safeCall(func() error { return s.cb.Tick(ctx) }); err != nil {
				reporter.Report(s, err, true)
				s.Abort()
			}
		}
	}

	if s.abortPending() {
		s.fireAborted(ctx, reporter)
		return
	}

	next := s.clock.Now().Add(s.interval)
	if !s.waited || next.After(s.resumeTime) {
		s.resumeTime = next
	}
	s.waited = false
}

func (s *Script) dispatchKeys(ctx context.Context, reporter ErrorReporter) {
	for s.IsRunning() {
		ev, ok := s.keys.pop()
		if !ok {
			return
		}
		handler := s.cb.KeyUp
		if ev.Down {
			handler = s.cb.KeyDown
		}
		if handler == nil {
			continue
		}
		if err := safeCall(func() error { return handler(ctx, ev) }); err != nil {
			reporter.Report(s, err, false)
			return
		}
	}
}

func (s *Script) fireAborted(ctx context.Context, reporter ErrorReporter) {
	if err := s.fsm.Transition(finitestate.ScriptAborted); err != nil {
		// Another caller already delivered the notification.
		return
	}
	if s.cb.Aborted != nil {
		if err := safeCall(func() error { return s.cb.Aborted(ctx) }); err != nil {
			reporter.Report(s, err, false)
		}
	}
	s.logger.Warn(fmt.Sprintf("Aborted script %s.", s.name))
}

// safeCall runs fn, converting a panic into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrCallbackPanic, rerr)
				return
			}
			err = fmt.Errorf("%w: %v", ErrCallbackPanic, r)
		}
	}()
	return fn()
}
