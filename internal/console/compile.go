package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/scripthook/internal/compiler"
	"github.com/atlanticdynamic/scripthook/internal/finitestate"
	"github.com/gofrs/uuid/v5"
)

type compileResult struct {
	id    uuid.UUID
	input string
	unit  compiler.Unit
	err   error
}

// compile runs on its own goroutine and hands the result to the next Tick.
// comp is the compiler that was current when the line was submitted.
func (c *Console) compile(ctx context.Context, comp compiler.Compiler, id uuid.UUID, src string) {
	res := compileResult{id: id, input: src}
	defer func() {
		if r := recover(); r != nil {
			res.unit = nil
			res.err = fmt.Errorf("%w: compiler panicked: %v", compiler.ErrCompile, r)
		}
		c.compileDone <- res
	}()

	ctx, cancel := context.WithTimeout(ctx, c.compileTimeout)
	defer cancel()

	logger := c.logger.With("job", id.String(), "language", comp.Language())
	logger.Debug("Compiling console input")
	res.unit, res.err = comp.Compile(ctx, src)
	if res.err == nil && res.unit == nil {
		res.err = compiler.ErrNilUnit
	}
	logger.Debug("Compilation finished", "error", res.err)
}

// finishCompile invokes or reports a finished compilation, then frees the
// pipeline for the next submission.
func (c *Console) finishCompile(ctx context.Context, res compileResult) {
	defer func() {
		c.editor.Clear()
		if err := c.compileFSM.Transition(finitestate.CompileIdle); err != nil {
			c.logger.Error("Failed to reset compile state", "job", res.id.String(), "error", err)
		}
	}()

	if res.err != nil {
		c.print(SeverityError, "Couldn't compile input expression: "+res.input)
		c.print(SeverityError, diagnosticLines(res.err))
		return
	}
	c.report(compiler.Invoke(ctx, res.unit))
}

func diagnosticLines(err error) string {
	var cerr *compiler.CompileError
	if !errors.As(err, &cerr) || len(cerr.Diagnostics) == 0 {
		return fmt.Sprintf("   at line 0: %s", err)
	}
	lines := make([]string, len(cerr.Diagnostics))
	for i, d := range cerr.Diagnostics {
		lines[i] = fmt.Sprintf("   at line %d: %s", d.Line, d.Message)
	}
	return strings.Join(lines, "\n")
}
