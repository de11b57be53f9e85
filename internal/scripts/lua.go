package scripts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/compiler"
	"github.com/atlanticdynamic/scripthook/internal/input"
	"github.com/atlanticdynamic/scripthook/internal/scheduler"
	lua "github.com/yuin/gopher-lua"
)

// Global functions a Lua script may define.
const (
	luaOnTick    = "on_tick"
	luaOnKeyDown = "on_key_down"
	luaOnKeyUp   = "on_key_up"
	luaOnAborted = "on_aborted"
)

var errScriptNotReady = errors.New("the script API is not available while the script is loading")

type luaProgram struct {
	src   Source
	proto *lua.FunctionProto
}

func compileLua(src Source) (Program, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	proto, err := compiler.CompileLua(string(data), filepath.Base(src.Path))
	if err != nil {
		return nil, compiler.Diagnose(err)
	}
	return &luaProgram{src: src, proto: proto}, nil
}

func (p *luaProgram) Source() Source { return p.src }

// Instantiate runs the chunk in a fresh state and binds the globals it
// defined as the script's callbacks.
func (p *luaProgram) Instantiate(ctx context.Context, env Env) (*scheduler.Script, error) {
	settings, err := LoadSettings(SettingsPath(p.src.Path))
	if err != nil {
		return nil, err
	}

	ls := &luaScript{
		L:        lua.NewState(),
		sched:    env.Scheduler,
		printer:  env.Printer,
		settings: settings,
		logger:   slog.New(env.logHandler()).WithGroup("scripts.Lua").With("script", p.src.Name),
	}
	ls.openAPI()

	ls.L.SetContext(ctx)
	ls.L.Push(ls.L.NewFunctionFromProto(p.proto))
	err = ls.L.PCall(0, 0, nil)
	ls.L.RemoveContext()
	if err != nil {
		ls.L.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrInstantiate, p.src.Name, err)
	}

	cb, err := ls.callbacks()
	if err != nil {
		ls.L.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrInstantiate, p.src.Name, err)
	}

	script, err := scheduler.NewScript(p.src.Name, cb, scriptOptions(p.src, env, ls)...)
	if err != nil {
		ls.L.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrInstantiate, p.src.Name, err)
	}
	ls.script = script
	return script, nil
}

// luaScript is the runtime state behind one Lua script. All of its methods
// run on the frame goroutine.
type luaScript struct {
	L        *lua.LState
	script   *scheduler.Script
	sched    *scheduler.Scheduler
	printer  Printer
	settings *Settings
	logger   *slog.Logger
}

func (ls *luaScript) global(name string) (*lua.LFunction, error) {
	switch v := ls.L.GetGlobal(name).(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LFunction:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s is a %s", ErrBadCallbackType, name, v.Type())
	}
}

func (ls *luaScript) callbacks() (scheduler.Callbacks, error) {
	var cb scheduler.Callbacks

	tick, err := ls.global(luaOnTick)
	if err != nil {
		return cb, err
	}
	if tick != nil {
		cb.Tick = func(ctx context.Context) error { return ls.call(ctx, tick) }
	}

	down, err := ls.global(luaOnKeyDown)
	if err != nil {
		return cb, err
	}
	if down != nil {
		cb.KeyDown = func(ctx context.Context, ev input.KeyEvent) error {
			return ls.call(ctx, down, lua.LString(ev.Key.String()), ls.modsTable(ev.Mods))
		}
	}

	up, err := ls.global(luaOnKeyUp)
	if err != nil {
		return cb, err
	}
	if up != nil {
		cb.KeyUp = func(ctx context.Context, ev input.KeyEvent) error {
			return ls.call(ctx, up, lua.LString(ev.Key.String()), ls.modsTable(ev.Mods))
		}
	}

	aborted, err := ls.global(luaOnAborted)
	if err != nil {
		return cb, err
	}
	// The state is released once the abort notification has run.
	cb.Aborted = func(ctx context.Context) error {
		defer ls.L.Close()
		if aborted == nil {
			return nil
		}
		return ls.call(ctx, aborted)
	}
	return cb, nil
}

func (ls *luaScript) call(ctx context.Context, fn *lua.LFunction, args ...lua.LValue) error {
	ls.L.SetContext(ctx)
	defer ls.L.RemoveContext()
	return ls.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
}

func (ls *luaScript) modsTable(mods input.Modifiers) *lua.LTable {
	t := ls.L.NewTable()
	t.RawSetString("shift", lua.LBool(mods.Shift()))
	t.RawSetString("control", lua.LBool(mods.Control()))
	t.RawSetString("alt", lua.LBool(mods.Alt()))
	return t
}

func (ls *luaScript) openAPI() {
	L := ls.L
	L.SetGlobal("print", L.NewFunction(ls.luaPrint))
	L.SetGlobal("script", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"wait":         ls.luaWait,
		"yield":        ls.luaYield,
		"pause":        ls.withScript(func(s *scheduler.Script) { s.Pause() }),
		"resume":       ls.withScript(func(s *scheduler.Script) { s.Resume() }),
		"abort":        ls.withScript(func(s *scheduler.Script) { s.Abort() }),
		"set_interval": ls.luaSetInterval,
		"interval":     ls.luaInterval,
		"name":         ls.luaName,
		"filename":     ls.luaFilename,
	}))
	L.SetGlobal("console", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"info":  ls.luaConsole(func(p Printer) func(string, ...any) { return p.PrintInfo }),
		"warn":  ls.luaConsole(func(p Printer) func(string, ...any) { return p.PrintWarning }),
		"error": ls.luaConsole(func(p Printer) func(string, ...any) { return p.PrintError }),
	}))
	L.SetGlobal("settings", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get":  ls.luaSettingsGet,
		"set":  ls.luaSettingsSet,
		"save": ls.luaSettingsSave,
	}))
}

func (ls *luaScript) requireScript(L *lua.LState) *scheduler.Script {
	if ls.script == nil {
		L.RaiseError("%s", errScriptNotReady)
	}
	return ls.script
}

func (ls *luaScript) withScript(fn func(*scheduler.Script)) lua.LGFunction {
	return func(L *lua.LState) int {
		fn(ls.requireScript(L))
		return 0
	}
}

func milliseconds(n lua.LNumber) time.Duration {
	return time.Duration(float64(n) * float64(time.Millisecond))
}

func (ls *luaScript) luaWait(L *lua.LState) int {
	d := milliseconds(L.OptNumber(1, 0))
	if err := ls.sched.Wait(ls.requireScript(L), d); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func (ls *luaScript) luaYield(L *lua.LState) int {
	if err := ls.sched.Yield(ls.requireScript(L)); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func (ls *luaScript) luaSetInterval(L *lua.LState) int {
	ls.requireScript(L).SetInterval(milliseconds(L.CheckNumber(1)))
	return 0
}

func (ls *luaScript) luaInterval(L *lua.LState) int {
	L.Push(lua.LNumber(ls.requireScript(L).Interval().Milliseconds()))
	return 1
}

func (ls *luaScript) luaName(L *lua.LState) int {
	L.Push(lua.LString(ls.requireScript(L).Name()))
	return 1
}

func (ls *luaScript) luaFilename(L *lua.LState) int {
	L.Push(lua.LString(ls.requireScript(L).Filename()))
	return 1
}

func (ls *luaScript) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	line := strings.Join(parts, "\t")
	if ls.printer == nil {
		ls.logger.Info(line)
		return 0
	}
	ls.printer.PrintInfo(line)
	return 0
}

func (ls *luaScript) luaConsole(pick func(Printer) func(string, ...any)) lua.LGFunction {
	return func(L *lua.LState) int {
		format := L.CheckString(1)
		args := make([]any, 0, L.GetTop()-1)
		for i := 2; i <= L.GetTop(); i++ {
			args = append(args, compiler.LuaValue(L.Get(i)))
		}
		if ls.printer == nil {
			ls.logger.Info(format, "args", args)
			return 0
		}
		pick(ls.printer)(format, args...)
		return 0
	}
}

func (ls *luaScript) luaSettingsGet(L *lua.LState) int {
	section := L.CheckString(1)
	key := L.CheckString(2)
	def := compiler.LuaValue(L.Get(3))
	L.Push(toLua(L, ls.settings.GetValue(section, key, def)))
	return 1
}

func (ls *luaScript) luaSettingsSet(L *lua.LState) int {
	ls.settings.SetValue(L.CheckString(1), L.CheckString(2), compiler.LuaValue(L.CheckAny(3)))
	return 0
}

func (ls *luaScript) luaSettingsSave(L *lua.LState) int {
	if err := ls.settings.Save(); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// toLua converts settings values back into Lua values.
func toLua(L *lua.LState, v any) lua.LValue {
	switch v := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case []any:
		t := L.NewTable()
		for _, item := range v {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range v {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(v))
	}
}
