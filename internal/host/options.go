package host

import (
	"context"
	"io"
	"log/slog"

	"github.com/atlanticdynamic/scripthook/internal/console"
	"github.com/atlanticdynamic/scripthook/internal/scheduler"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogHandler sets the handler every component logs to. Warnings and
// errors are also mirrored into the console.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		if handler != nil {
			r.logHandler = handler
		}
	}
}

// WithContext sets a custom parent context for the Runner instance.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		if ctx != nil {
			r.parentCtx = ctx
		}
	}
}

// WithInvoker sets the native invoker used to block game controls while the
// console is open.
func WithInvoker(invoker NativeInvoker) Option {
	return func(r *Runner) {
		r.invoker = invoker
	}
}

// WithClipboard replaces the system clipboard used by the console.
func WithClipboard(clipboard console.Clipboard) Option {
	return func(r *Runner) {
		r.clipboard = clipboard
	}
}

// WithHistory shares a command history with the console.
func WithHistory(history *console.History) Option {
	return func(r *Runner) {
		r.history = history
	}
}

// WithClock replaces the wall clock for the console and every script.
func WithClock(clock Clock) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithOverlay receives the rendered console on every frame.
func WithOverlay(overlay Overlay) Option {
	return func(r *Runner) {
		r.overlay = overlay
	}
}

// WithTranscript receives every console line as it appears.
func WithTranscript(w io.Writer) Option {
	return func(r *Runner) {
		r.transcript = w
	}
}

// WithReporter adds a receiver for script faults next to the log.
func WithReporter(reporter scheduler.ErrorReporter) Option {
	return func(r *Runner) {
		r.reporter = reporter
	}
}
