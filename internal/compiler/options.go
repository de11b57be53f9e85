package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/traefik/yaegi/interp"
	lua "github.com/yuin/gopher-lua"
)

// Supported expression languages.
const (
	LanguageGo       = "go"
	LanguageLua      = "lua"
	LanguageRisor    = "risor"
	LanguageStarlark = "starlark"
)

// Languages lists every language New accepts.
func Languages() []string {
	return []string{LanguageGo, LanguageLua, LanguageRisor, LanguageStarlark}
}

type options struct {
	logHandler slog.Handler
	output     io.Writer
	goExports  []interp.Exports
	luaSetup   func(*lua.LState)
	globals    map[string]any
}

// Option configures a compiler.
type Option func(*options)

// WithLogHandler sets the slog handler used by the compiler and the script
// engines it drives.
func WithLogHandler(handler slog.Handler) Option {
	return func(o *options) {
		if handler != nil {
			o.logHandler = handler
		}
	}
}

// WithOutput receives whatever compiled code prints.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithGoExports makes additional packages importable from Go expressions.
func WithGoExports(exports ...interp.Exports) Option {
	return func(o *options) {
		o.goExports = append(o.goExports, exports...)
	}
}

// WithLuaSetup runs on every fresh Lua state before a unit executes.
func WithLuaSetup(setup func(*lua.LState)) Option {
	return func(o *options) {
		o.luaSetup = setup
	}
}

// WithGlobals exposes static data to risor and starlark expressions through
// their ctx global.
func WithGlobals(globals map[string]any) Option {
	return func(o *options) {
		o.globals = globals
	}
}

func newOptions(opts []Option) options {
	o := options{
		logHandler: slog.Default().Handler(),
		output:     io.Discard,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the compiler for language, matched case-insensitively.
func New(language string, opts ...Option) (Compiler, error) {
	switch strings.ToLower(language) {
	case LanguageGo:
		return NewGo(opts...), nil
	case LanguageLua:
		return NewLua(opts...), nil
	case LanguageRisor:
		return NewRisor(opts...), nil
	case LanguageStarlark:
		return NewStarlark(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
}
