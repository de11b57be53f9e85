package host

import "errors"

// ErrNotRunning is returned when a reload is asked of a runner that is not
// running.
var ErrNotRunning = errors.New("runner is not running")
