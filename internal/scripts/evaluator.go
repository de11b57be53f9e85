package scripts

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/compiler"
	"github.com/atlanticdynamic/scripthook/internal/config"
	"github.com/atlanticdynamic/scripthook/internal/input"
	"github.com/atlanticdynamic/scripthook/internal/scheduler"
	"github.com/robbyt/go-polyscript"
	"github.com/robbyt/go-polyscript/platform"
)

// Events delivered to evaluator scripts through ctx["event"].
const (
	EventTick    = "tick"
	EventKeyDown = "key_down"
	EventKeyUp   = "key_up"
	EventAborted = "aborted"
)

// evaluatorProgram is a risor, starlark or wasm script run through
// go-polyscript. The whole program is evaluated once per event; the event
// and its details are passed in the ctx global, and the returned map may ask
// for changes to the script:
//
//	{"wait": ms, "interval": ms, "print": "text", "pause": true, "abort": true}
type evaluatorProgram struct {
	src Source
	ev  platform.Evaluator
}

func compileEvaluator(src Source, logHandler slog.Handler) (Program, error) {
	if _, err := os.Stat(src.Path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	static := map[string]any{
		"script":   src.Name,
		"filename": src.Path,
	}

	var (
		ev  platform.Evaluator
		err error
	)
	switch src.Runtime {
	case config.RuntimeRisor:
		ev, err = polyscript.FromRisorFileWithData(src.Path, static, logHandler)
	case config.RuntimeStarlark:
		ev, err = polyscript.FromStarlarkFileWithData(src.Path, static, logHandler)
	case config.RuntimeExtism:
		ev, err = polyscript.FromExtismFileWithData(src.Path, static, logHandler, src.Entrypoint)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuntime, src.Runtime)
	}
	if err != nil {
		return nil, compiler.Diagnose(err)
	}
	return &evaluatorProgram{src: src, ev: ev}, nil
}

func (p *evaluatorProgram) Source() Source { return p.src }

func (p *evaluatorProgram) Instantiate(_ context.Context, env Env) (*scheduler.Script, error) {
	settings, err := LoadSettings(SettingsPath(p.src.Path))
	if err != nil {
		return nil, err
	}

	es := &evaluatorScript{
		ev:       p.ev,
		sched:    env.Scheduler,
		printer:  env.Printer,
		settings: settings,
		logger:   slog.New(env.logHandler()).WithGroup("scripts.Evaluator").With("script", p.src.Name),
	}
	cb := scheduler.Callbacks{
		Tick: func(ctx context.Context) error {
			return es.eval(ctx, EventTick, nil)
		},
		KeyDown: func(ctx context.Context, ev input.KeyEvent) error {
			return es.eval(ctx, EventKeyDown, keyData(ev))
		},
		KeyUp: func(ctx context.Context, ev input.KeyEvent) error {
			return es.eval(ctx, EventKeyUp, keyData(ev))
		},
		Aborted: func(ctx context.Context) error {
			return es.eval(ctx, EventAborted, nil)
		},
	}

	script, err := scheduler.NewScript(p.src.Name, cb, scriptOptions(p.src, env, es)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInstantiate, p.src.Name, err)
	}
	es.script = script
	return script, nil
}

func keyData(ev input.KeyEvent) map[string]any {
	return map[string]any{
		"key":  ev.Key.String(),
		"down": ev.Down,
		"mods": map[string]any{
			"shift":   ev.Mods.Shift(),
			"control": ev.Mods.Control(),
			"alt":     ev.Mods.Alt(),
		},
	}
}

type evaluatorScript struct {
	ev       platform.Evaluator
	script   *scheduler.Script
	sched    *scheduler.Scheduler
	printer  Printer
	settings *Settings
	logger   *slog.Logger
}

func (es *evaluatorScript) eval(ctx context.Context, event string, extra map[string]any) error {
	data := map[string]any{
		"event":    event,
		"settings": es.settingsData(),
	}
	maps.Copy(data, extra)

	evalCtx, err := es.ev.AddDataToContext(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to prepare %s event: %w", event, err)
	}
	resp, err := es.ev.Eval(evalCtx)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return es.apply(event, resp.Interface())
}

// unnamedSection is how keys outside any section appear to evaluator
// scripts, since their data maps cannot carry empty keys.
const unnamedSection = "default"

// settingsData converts the settings into types every engine accepts.
func (es *evaluatorScript) settingsData() map[string]any {
	sections := es.settings.Sections()
	out := make(map[string]any, len(sections))
	for name, table := range sections {
		if name == "" {
			name = unnamedSection
		}
		out[name] = plainValue(table)
	}
	return out
}

func plainValue(v any) any {
	switch v := v.(type) {
	case nil, bool, string, int64, float64:
		return v
	case int:
		return int64(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plainValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			if k == "" {
				continue
			}
			out[k] = plainValue(item)
		}
		return out
	default:
		return fmt.Sprint(v)
	}
}

// apply carries out the requests in an evaluation result.
func (es *evaluatorScript) apply(event string, result any) error {
	reply, ok := result.(map[string]any)
	if !ok {
		return nil
	}

	if text, ok := reply["print"]; ok && text != nil {
		if es.printer != nil {
			es.printer.PrintInfo(fmt.Sprint(text))
		} else {
			es.logger.Info(fmt.Sprint(text))
		}
	}
	if event == EventAborted {
		return nil
	}

	if d, ok := millisecondsOf(reply["interval"]); ok {
		es.script.SetInterval(d)
	}
	if d, ok := millisecondsOf(reply["wait"]); ok {
		if err := es.sched.Wait(es.script, d); err != nil {
			return err
		}
	}
	if truthy(reply["pause"]) {
		es.script.Pause()
	}
	if truthy(reply["abort"]) {
		es.script.Abort()
	}
	return nil
}

func millisecondsOf(v any) (time.Duration, bool) {
	switch n := v.(type) {
	case int:
		return time.Duration(n) * time.Millisecond, true
	case int64:
		return time.Duration(n) * time.Millisecond, true
	case float64:
		return time.Duration(n * float64(time.Millisecond)), true
	default:
		return 0, false
	}
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
