// Package compiler turns one line of console input into an invocable unit.
// Each supported expression language has its own Compiler.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCompile is matched by every *CompileError.
var ErrCompile = errors.New("compilation failed")

var (
	ErrEmptySource      = errors.New("empty source")
	ErrUnknownLanguage  = errors.New("unknown language")
	ErrInvocationPanic  = errors.New("invocation panicked")
	ErrNilUnit          = errors.New("compiler returned no unit")
	ErrUnsupportedValue = errors.New("unsupported value")
)

// Unit is compiled code ready to run once with no arguments.
type Unit interface {
	Invoke(ctx context.Context) (any, error)
}

// UnitFunc adapts a function to Unit.
type UnitFunc func(ctx context.Context) (any, error)

func (f UnitFunc) Invoke(ctx context.Context) (any, error) { return f(ctx) }

// Compiler compiles console input. Compile is called off the frame goroutine
// and must not touch frame-owned state.
type Compiler interface {
	Language() string
	Compile(ctx context.Context, src string) (Unit, error)
}

// Diagnostic is one problem reported by a compiler, with a 1-based line
// number or 0 when the compiler did not report one.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

// CompileError carries the diagnostics of a failed compilation.
type CompileError struct {
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%s: %s", ErrCompile, strings.Join(parts, "; "))
}

func (e *CompileError) Is(target error) bool { return target == ErrCompile }

// newCompileError wraps a single diagnostic.
func newCompileError(line int, msg string) *CompileError {
	return &CompileError{Diagnostics: []Diagnostic{{Line: line, Message: msg}}}
}

// PanicError is a recovered panic from an invoked unit.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

func (e *PanicError) Is(target error) bool { return target == ErrInvocationPanic }

// Unwrap exposes a panicked error value.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Invoke runs unit, turning a panic into a *PanicError.
func Invoke(ctx context.Context, unit Unit) (result any, err error) {
	if unit == nil {
		return nil, ErrNilUnit
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{Value: r}
		}
	}()
	return unit.Invoke(ctx)
}

// InnermostCause follows the Unwrap chain to the deepest single error.
func InnermostCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}
