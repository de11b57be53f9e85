package scripts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/scripthook/internal/config"
	"github.com/atlanticdynamic/scripthook/internal/scheduler"
)

// Printer receives the console output of scripts.
type Printer interface {
	PrintInfo(format string, args ...any)
	PrintWarning(format string, args ...any)
	PrintError(format string, args ...any)
}

// Env is what a program needs to become a running script.
type Env struct {
	Scheduler  *scheduler.Scheduler
	Printer    Printer
	LogHandler slog.Handler
	Clock      scheduler.Clock
}

func (e Env) logHandler() slog.Handler {
	if e.LogHandler == nil {
		return slog.Default().Handler()
	}
	return e.LogHandler
}

// Program is a compiled script file, ready to be instantiated on the frame
// goroutine.
type Program interface {
	Source() Source
	// Instantiate runs the program's top level and wraps its callbacks in a
	// scheduler script. It does not register or start the script.
	Instantiate(ctx context.Context, env Env) (*scheduler.Script, error)
}

// compileSource compiles src with the runtime its extension selects.
func compileSource(src Source, logHandler slog.Handler) (Program, error) {
	switch src.Runtime {
	case config.RuntimeLua:
		return compileLua(src)
	case config.RuntimeRisor, config.RuntimeStarlark, config.RuntimeExtism:
		return compileEvaluator(src, logHandler)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuntime, src.Runtime)
	}
}

// scriptOptions are the scheduler options every runtime applies.
func scriptOptions(src Source, env Env, handle any) []scheduler.ScriptOption {
	return []scheduler.ScriptOption{
		scheduler.WithScriptLogHandler(env.LogHandler),
		scheduler.WithClock(env.Clock),
		scheduler.WithInterval(src.Interval),
		scheduler.WithFilename(src.Path),
		scheduler.WithHandle(handle),
	}
}
