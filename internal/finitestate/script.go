// Script lifecycle state machine.
// Tracks a loaded script from creation until it is aborted.
package finitestate

import (
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Script state constants
const (
	ScriptCreated  = "created"  // Instantiated by the loader, not yet started
	ScriptRunning  = "running"  // Ticked every frame once its resume time has passed
	ScriptPaused   = "paused"   // Never ticked until resumed
	ScriptAborting = "aborting" // Stopped, abort notification still pending
	ScriptAborted  = "aborted"  // Abort notification delivered (terminal state)
)

// ScriptTransitions defines the valid state transitions for a script instance.
var ScriptTransitions = map[string][]string{
	ScriptCreated:  {ScriptRunning, ScriptAborting},
	ScriptRunning:  {ScriptPaused, ScriptAborting},
	ScriptPaused:   {ScriptRunning, ScriptAborting},
	ScriptAborting: {ScriptAborted},
	ScriptAborted:  {}, // Aborted is a terminal state
}

// NewScriptMachine creates a state machine for one script instance.
func NewScriptMachine(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, ScriptCreated, ScriptTransitions)
	if err != nil {
		return nil, err
	}
	return machine, nil
}
