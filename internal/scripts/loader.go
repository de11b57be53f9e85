// Package scripts discovers, compiles and instantiates script files, and
// provides the API scripts use to talk to the scheduler and the console.
package scripts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/atlanticdynamic/scripthook/internal/compiler"
	"github.com/atlanticdynamic/scripthook/internal/config"
	"github.com/atlanticdynamic/scripthook/internal/scheduler"
	"github.com/remeh/sizedwaitgroup"
)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogHandler sets a custom slog handler for the Loader and the scripts
// it creates.
func WithLogHandler(handler slog.Handler) LoaderOption {
	return func(l *Loader) {
		if handler != nil {
			l.logHandler = handler
			l.logger = slog.New(handler).WithGroup("scripts.Loader")
		}
	}
}

// WithLogger sets the Loader's own logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPrinter sets where script console output goes.
func WithPrinter(printer Printer) LoaderOption {
	return func(l *Loader) {
		l.printer = printer
	}
}

// WithLogBook captures each script's logs in book.
func WithLogBook(book *LogBook) LoaderOption {
	return func(l *Loader) {
		l.logs = book
	}
}

// WithClock replaces the clock handed to every script.
func WithClock(clock scheduler.Clock) LoaderOption {
	return func(l *Loader) {
		l.clock = clock
	}
}

// WithConfig takes the scripts directory, explicit entries and parallelism
// from cfg.
func WithConfig(cfg *config.Config) LoaderOption {
	return func(l *Loader) {
		if cfg == nil {
			return
		}
		l.dir = cfg.Host.ScriptsDir
		l.entries = cfg.EnabledScripts()
		l.disabled = cfg.DisabledPaths()
		l.maxParallel = cfg.Host.MaxParallelLoads
	}
}

// WithScriptsDir sets the directory scanned for scripts.
func WithScriptsDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.dir = dir
	}
}

// WithMaxParallel bounds how many files are compiled at once.
func WithMaxParallel(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxParallel = n
		}
	}
}

// Loader turns the configured script files into scheduler scripts.
type Loader struct {
	logger     *slog.Logger
	logHandler slog.Handler
	sched      *scheduler.Scheduler
	printer    Printer
	logs       *LogBook
	clock      scheduler.Clock

	dir         string
	entries     []config.ScriptConfig
	disabled    map[string]bool
	maxParallel int
}

// NewLoader returns a loader registering its scripts with sched.
func NewLoader(sched *scheduler.Scheduler, opts ...LoaderOption) *Loader {
	l := &Loader{
		logger:      slog.Default().WithGroup("scripts.Loader"),
		logHandler:  slog.Default().Handler(),
		sched:       sched,
		dir:         config.DefaultScriptsDir,
		maxParallel: config.DefaultMaxParallelLoads,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is the outcome of compiling one source.
type Result struct {
	Source  Source
	Program Program
	Err     error
}

// Compile compiles every source, at most maxParallel at a time. Results are
// returned in the order of sources.
func (l *Loader) Compile(ctx context.Context, sources []Source) []Result {
	results := make([]Result, len(sources))
	swg := sizedwaitgroup.New(l.maxParallel)
	for i, src := range sources {
		results[i].Source = src
		if err := swg.AddWithContext(ctx); err != nil {
			results[i].Err = err
			continue
		}
		go func() {
			defer swg.Done()
			results[i].Program, results[i].Err = compileSource(src, l.logHandler)
		}()
	}
	swg.Wait()
	return results
}

// Load discovers and compiles the scripts, registers them with the scheduler
// and starts them. It must run on the frame goroutine. The returned error
// joins every per-file failure; scripts that loaded are started regardless.
func (l *Loader) Load(ctx context.Context) (int, error) {
	l.logger.Info(fmt.Sprintf("Loading scripts from '%s' ...", l.dir))

	sources, err := Discover(l.dir, l.entries, l.disabled)
	if err != nil {
		l.logger.Error("Failed to reload scripts", "error", err)
		return 0, err
	}

	var (
		errs   []error
		loaded []*scheduler.Script
	)
	for _, res := range l.Compile(ctx, sources) {
		file := filepath.Base(res.Source.Path)
		if res.Err != nil {
			l.logCompileFailure(file, res.Err)
			errs = append(errs, fmt.Errorf("%s: %w", file, res.Err))
			continue
		}
		l.logger.Info(fmt.Sprintf("Found 1 script(s) in '%s'.", file))

		script, err := l.instantiate(ctx, res.Program)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, script)
	}

	if len(loaded) > 0 {
		l.logger.Info(fmt.Sprintf("Starting %d script(s) ...", len(loaded)))
	}
	for _, script := range loaded {
		if err := script.Start(); err != nil {
			errs = append(errs, err)
		}
	}
	return len(loaded), errors.Join(errs...)
}

func (l *Loader) instantiate(ctx context.Context, prog Program) (*scheduler.Script, error) {
	src := prog.Source()
	l.logger.Debug(fmt.Sprintf("Instantiating script '%s' ...", src.Name))

	handler := l.logHandler
	if l.logs != nil {
		handler = l.logs.Handler(src.Name)
	}
	script, err := prog.Instantiate(ctx, Env{
		Scheduler:  l.sched,
		Printer:    l.printer,
		LogHandler: handler,
		Clock:      l.clock,
	})
	if err != nil {
		l.logger.Error(fmt.Sprintf("Failed to instantiate script '%s'", src.Name), "error", err)
		return nil, err
	}
	if err := l.sched.Add(script); err != nil {
		l.logger.Error(fmt.Sprintf("Failed to register script '%s'", src.Name), "error", err)
		return nil, err
	}
	return script, nil
}

func (l *Loader) logCompileFailure(file string, err error) {
	var cerr *compiler.CompileError
	if !errors.As(err, &cerr) {
		l.logger.Error(fmt.Sprintf("Failed to load '%s'", file), "error", err)
		return
	}
	lines := make([]string, len(cerr.Diagnostics))
	for i, d := range cerr.Diagnostics {
		lines[i] = fmt.Sprintf("   at line %d: %s", d.Line, d.Message)
	}
	l.logger.Error(fmt.Sprintf("Failed to compile '%s' with %d error(s):\n%s",
		file, len(cerr.Diagnostics), strings.Join(lines, "\n")))
}
