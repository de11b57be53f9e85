// Package scheduler drives loaded scripts once per frame: it buffers their key
// events, fires their tick callbacks, and manages pause, resume and abort.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/finitestate"
	"github.com/atlanticdynamic/scripthook/internal/input"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogHandler sets a custom slog handler for the Scheduler.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Scheduler) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("scheduler.Scheduler")
		}
	}
}

// WithLogger sets a logger for the Scheduler.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReporter sets where script faults are reported. The default logs them.
func WithReporter(reporter ErrorReporter) Option {
	return func(s *Scheduler) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// Scheduler owns the registered scripts. Tick must only be called from the
// frame goroutine; registration and key dispatch are safe from any goroutine.
type Scheduler struct {
	logger   *slog.Logger
	reporter ErrorReporter

	mu      sync.RWMutex
	scripts []*Script

	// executing is the script whose callbacks are running; frame goroutine only.
	executing *Script
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: slog.Default().WithGroup("scheduler.Scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = NewLogReporter(s.logger)
	}
	return s
}

// Add registers a script. It does not start it.
func (s *Scheduler) Add(script *Script) error {
	if script == nil {
		return ErrNilScript
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.scripts, func(existing *Script) bool { return existing.ID() == script.ID() }) {
		return fmt.Errorf("%w: %s", ErrDuplicateScript, script.Name())
	}
	s.scripts = append(s.scripts, script)
	return nil
}

// Remove unregisters a script without firing its abort notification.
func (s *Scheduler) Remove(script *Script) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.Index(s.scripts, script)
	if idx < 0 {
		return ErrScriptNotFound
	}
	s.scripts = slices.Delete(s.scripts, idx, idx+1)
	return nil
}

// Scripts returns a snapshot of the registered scripts in registration order.
func (s *Scheduler) Scripts() []*Script {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.scripts)
}

// Len returns the number of registered scripts.
func (s *Scheduler) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scripts)
}

// Lookup finds the first script with the given name, ignoring case.
func (s *Scheduler) Lookup(name string) (*Script, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, script := range s.scripts {
		if strings.EqualFold(script.Name(), name) {
			return script, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, name)
}

// Executing returns the script whose callback is currently running, or nil.
func (s *Scheduler) Executing() *Script {
	return s.executing
}

// Tick runs one main loop iteration for every registered script.
func (s *Scheduler) Tick(ctx context.Context) {
	for _, script := range s.Scripts() {
		s.executing = script
		script.mainLoop(ctx, s.reporter)
		s.executing = nil
	}
}

// DispatchKey queues a key event for every running script.
func (s *Scheduler) DispatchKey(ev input.KeyEvent) {
	for _, script := range s.Scripts() {
		if script.IsRunning() {
			script.EnqueueKey(ev)
		}
	}
}

// Wait delays script's next tick. It is only legal from inside that script's
// own running callback.
func (s *Scheduler) Wait(script *Script, d time.Duration) error {
	if script == nil || script != s.executing || !script.IsRunning() {
		return ErrIllegalWait
	}
	script.Wait(d)
	return nil
}

// Yield is Wait(script, 0).
func (s *Scheduler) Yield(script *Script) error {
	return s.Wait(script, 0)
}

// StartAll starts every script still in the created state.
func (s *Scheduler) StartAll() error {
	var errs []error
	for _, script := range s.Scripts() {
		if script.State() != finitestate.ScriptCreated {
			continue
		}
		if err := script.Start(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AbortAll aborts every script, delivers their abort notifications, and
// unregisters them. It returns how many scripts were stopped.
func (s *Scheduler) AbortAll(ctx context.Context) int {
	scripts := s.Scripts()
	s.logger.Info(fmt.Sprintf("Stopping %d script(s) ...", len(scripts)))

	for _, script := range scripts {
		script.Abort()
		s.executing = script
		script.mainLoop(ctx, s.reporter)
		s.executing = nil
	}

	s.mu.Lock()
	s.scripts = slices.DeleteFunc(s.scripts, func(existing *Script) bool {
		return slices.Contains(scripts, existing)
	})
	s.mu.Unlock()
	return len(scripts)
}

// Prune unregisters scripts whose abort notification has been delivered.
func (s *Scheduler) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.scripts)
	s.scripts = slices.DeleteFunc(s.scripts, (*Script).IsAborted)
	return before - len(s.scripts)
}
