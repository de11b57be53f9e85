// Console compile pipeline state machine.
package finitestate

import (
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Compile pipeline state constants
const (
	CompileIdle      = "idle"      // Ready to accept a submitted line
	CompileCompiling = "compiling" // One compilation in flight, submissions ignored
)

// CompileTransitions defines the valid state transitions for the compile pipeline.
var CompileTransitions = map[string][]string{
	CompileIdle:      {CompileCompiling},
	CompileCompiling: {CompileIdle},
}

// NewCompileMachine creates the state machine guarding the single in-flight compilation.
func NewCompileMachine(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, CompileIdle, CompileTransitions)
	if err != nil {
		return nil, err
	}
	return machine, nil
}
