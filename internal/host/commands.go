package host

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/atlanticdynamic/scripthook/internal/console"
	"github.com/atlanticdynamic/scripthook/internal/scheduler"
)

// CommandNamespace groups the script management commands.
const CommandNamespace = "Scripts"

var scriptArg = []console.Arg{{Name: "script", Type: "string"}}

func (r *Runner) registerCommands() error {
	r.console.UnregisterCommands(CommandNamespace)

	commands := []console.Command{
		{
			Name: "List",
			Help: "List the loaded scripts and their state.",
			Run:  r.cmdList,
		},
		{
			Name: "Start",
			Help: "Start a loaded script that has not run yet.",
			Args: scriptArg,
			Run: r.withScript(func(s *scheduler.Script) error {
				return s.Start()
			}),
		},
		{
			Name: "Abort",
			Help: "Abort a running script.",
			Args: scriptArg,
			Run: r.withScript(func(s *scheduler.Script) error {
				s.Abort()
				return nil
			}),
		},
		{
			Name: "Pause",
			Help: "Pause a running script.",
			Args: scriptArg,
			Run: r.withScript(func(s *scheduler.Script) error {
				s.Pause()
				return nil
			}),
		},
		{
			Name: "Resume",
			Help: "Resume a paused script.",
			Args: scriptArg,
			Run: r.withScript(func(s *scheduler.Script) error {
				s.Resume()
				return nil
			}),
		},
		{
			Name: "Reload",
			Help: "Abort every script and load them again.",
			Run: func(context.Context, []string) (any, error) {
				r.RequestReload()
				r.console.PrintInfo("Reloading scripts ...")
				return nil, nil
			},
		},
		{
			Name: "ScriptLog",
			Help: "Print the recent log of a script.",
			Args: scriptArg,
			Run:  r.cmdScriptLog,
		},
	}
	for _, cmd := range commands {
		cmd.Namespace = CommandNamespace
		if err := r.console.RegisterCommand(cmd); err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
	}
	return nil
}

func (r *Runner) withScript(fn func(*scheduler.Script) error) console.CommandFunc {
	return func(_ context.Context, args []string) (any, error) {
		script, err := r.sched.Lookup(args[0])
		if err != nil {
			return nil, err
		}
		if err := fn(script); err != nil {
			return nil, err
		}
		return script.State(), nil
	}
}

func (r *Runner) cmdList(context.Context, []string) (any, error) {
	scripts := r.sched.Scripts()
	if len(scripts) == 0 {
		r.console.PrintInfo("No scripts loaded.")
		return nil, nil
	}
	for _, s := range scripts {
		r.console.PrintInfo("{0,-20} {1,-9} {2}", s.Name(), s.State(), filepath.Base(s.Filename()))
	}
	return nil, nil
}

func (r *Runner) cmdScriptLog(ctx context.Context, args []string) (any, error) {
	return nil, r.logs.Replay(ctx, args[0], console.NewHandler(r.console, slog.LevelDebug))
}
