package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// GoCompiler compiles Go statements and expressions with yaegi. Each
// compilation gets a fresh interpreter so units never share state.
type GoCompiler struct {
	logger *slog.Logger
	opts   options
}

func NewGo(opts ...Option) *GoCompiler {
	o := newOptions(opts)
	return &GoCompiler{
		logger: slog.New(o.logHandler).WithGroup("compiler.GoCompiler"),
		opts:   o,
	}
}

func (c *GoCompiler) Language() string { return LanguageGo }

func (c *GoCompiler) Compile(_ context.Context, src string) (Unit, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptySource
	}

	i := interp.New(interp.Options{Stdout: c.opts.output, Stderr: c.opts.output})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load standard library symbols: %w", err)
	}
	for _, exports := range c.opts.goExports {
		if err := i.Use(exports); err != nil {
			return nil, fmt.Errorf("failed to load host symbols: %w", err)
		}
	}
	// Console lines cannot carry import declarations, so every loaded
	// package is pre-imported under its base name.
	i.ImportUsed()

	prog, err := i.Compile(src)
	if err != nil {
		c.logger.Debug("Go compilation failed", "error", err)
		return nil, Diagnose(err)
	}
	return &goUnit{interp: i, prog: prog}, nil
}

type goUnit struct {
	interp *interp.Interpreter
	prog   *interp.Program
}

func (u *goUnit) Invoke(ctx context.Context) (any, error) {
	v, err := u.interp.ExecuteWithContext(ctx, u.prog)
	if err != nil {
		return nil, err
	}
	return reflectResult(v), nil
}

// reflectResult unwraps an interpreter result, mapping "no value" to nil.
func reflectResult(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	switch v.Kind() {
	case reflect.Func:
		// A bare function declaration evaluates to the function itself.
		return nil
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}
