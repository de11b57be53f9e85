package scheduler

import "errors"

var (
	// ErrIllegalWait is returned when Wait is called for a script other than
	// the one whose callback is currently executing.
	ErrIllegalWait = errors.New("illegal call to Wait outside the script's main loop")

	ErrAlreadyStarted    = errors.New("script already started")
	ErrScriptAborted     = errors.New("script aborted")
	ErrDuplicateScript   = errors.New("script already registered")
	ErrScriptNotFound    = errors.New("script not found")
	ErrNilScript         = errors.New("script is nil")
	ErrCallbackPanic     = errors.New("script callback panicked")
	ErrEmptyScriptName   = errors.New("script name is empty")
	ErrInvalidTransition = errors.New("invalid script state transition")
)
