package compiler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/robbyt/go-polyscript"
	"github.com/robbyt/go-polyscript/platform"
)

// PolyCompiler compiles risor or starlark through go-polyscript.
type PolyCompiler struct {
	language string
	logger   *slog.Logger
	opts     options
	build    func(src string, globals map[string]any, handler slog.Handler) (platform.Evaluator, error)
	// wrap turns a bare expression into a program that reports its value.
	wrap func(src string) string
}

func NewRisor(opts ...Option) *PolyCompiler {
	o := newOptions(opts)
	return &PolyCompiler{
		language: LanguageRisor,
		logger:   slog.New(o.logHandler).WithGroup("compiler.PolyCompiler"),
		opts:     o,
		build:    polyscript.FromRisorStringWithData,
	}
}

func NewStarlark(opts ...Option) *PolyCompiler {
	o := newOptions(opts)
	return &PolyCompiler{
		language: LanguageStarlark,
		logger:   slog.New(o.logHandler).WithGroup("compiler.PolyCompiler"),
		opts:     o,
		build:    polyscript.FromStarlarkStringWithData,
		// Starlark evaluators report the value bound to "_".
		wrap: func(src string) string { return "_ = (" + src + ")" },
	}
}

func (c *PolyCompiler) Language() string { return c.language }

func (c *PolyCompiler) Compile(_ context.Context, src string) (Unit, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptySource
	}
	globals := c.opts.globals
	if globals == nil {
		globals = map[string]any{}
	}

	var (
		ev  platform.Evaluator
		err error
	)
	if c.wrap != nil {
		ev, err = c.build(c.wrap(src), globals, c.opts.logHandler)
	}
	// A failed build may still return an evaluator, so only err decides
	// whether the line is retried as written.
	if c.wrap == nil || err != nil {
		ev, err = c.build(src, globals, c.opts.logHandler)
	}
	if err != nil {
		c.logger.Debug("Compilation failed", "language", c.language, "error", err)
		return nil, Diagnose(err)
	}
	return &polyUnit{ev: ev}, nil
}

type polyUnit struct {
	ev platform.Evaluator
}

func (u *polyUnit) Invoke(ctx context.Context) (any, error) {
	resp, err := u.ev.Eval(ctx)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return resp.Interface(), nil
}
