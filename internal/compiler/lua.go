package compiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

const luaChunkName = "<console>"

// LuaCompiler compiles Lua chunks with gopher-lua. A line that is a valid
// expression is compiled as "return <line>" so its value is reported.
type LuaCompiler struct {
	logger *slog.Logger
	opts   options
}

func NewLua(opts ...Option) *LuaCompiler {
	o := newOptions(opts)
	return &LuaCompiler{
		logger: slog.New(o.logHandler).WithGroup("compiler.LuaCompiler"),
		opts:   o,
	}
}

func (c *LuaCompiler) Language() string { return LanguageLua }

func (c *LuaCompiler) Compile(_ context.Context, src string) (Unit, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptySource
	}
	proto, err := CompileLua("return "+src, luaChunkName)
	if err != nil {
		proto, err = CompileLua(src, luaChunkName)
	}
	if err != nil {
		c.logger.Debug("Lua compilation failed", "error", err)
		return nil, Diagnose(err)
	}
	return &luaUnit{proto: proto, opts: c.opts}, nil
}

// CompileLua parses and compiles a Lua chunk into a state-independent
// prototype.
func CompileLua(src, name string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, err
	}
	return lua.Compile(chunk, name)
}

type luaUnit struct {
	proto *lua.FunctionProto
	opts  options
}

func (u *luaUnit) Invoke(ctx context.Context) (any, error) {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	L.SetGlobal("print", L.NewFunction(luaPrinter(u.opts.output)))
	if u.opts.luaSetup != nil {
		u.opts.luaSetup(L)
	}

	L.Push(L.NewFunctionFromProto(u.proto))
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return LuaValue(ret), nil
}

// luaPrinter replaces print so output follows the configured writer.
func luaPrinter(w io.Writer) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(w, strings.Join(parts, "\t"))
		return 0
	}
}

// LuaValue converts a Lua value to a Go value. Sequences become []any,
// other tables map[string]any, and functions and userdata their string form.
func LuaValue(v lua.LValue) any {
	switch v := v.(type) {
	case nil:
		return nil
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return luaTable(v)
	case *lua.LUserData:
		return v.Value
	default:
		return v.String()
	}
}

func luaTable(t *lua.LTable) any {
	n := t.MaxN()
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })
	if n > 0 && n == count {
		out := make([]any, n)
		for i := 1; i <= n; i++ {
			out[i-1] = LuaValue(t.RawGetInt(i))
		}
		return out
	}
	out := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		out[k.String()] = LuaValue(v)
	})
	return out
}
