package host

import (
	"log/slog"
)

// Native function hashes used by the host.
const (
	NativeDisableAllControlActions uint64 = 0x5F4B6931816E599B
	NativeEnableControlAction      uint64 = 0x351220255D64C155
)

// lookControls are the camera control actions left enabled while the
// console blocks input (LookLeftRight through LookRightOnly).
var lookControls = []int{1, 2, 3, 4, 5, 6}

// NativeInvoker calls a native game function by hash.
type NativeInvoker interface {
	Invoke(hash uint64, args ...any) (any, error)
}

// ControlBlocker disables the game's control actions for one frame through
// a native invoker, keeping the camera usable.
type ControlBlocker struct {
	invoker NativeInvoker
	logger  *slog.Logger
}

// NewControlBlocker returns a blocker invoking natives through invoker.
func NewControlBlocker(invoker NativeInvoker, logger *slog.Logger) *ControlBlocker {
	if logger == nil {
		logger = slog.Default().WithGroup("host.ControlBlocker")
	}
	return &ControlBlocker{invoker: invoker, logger: logger}
}

// DisableControls must be called on every frame the controls should stay
// disabled.
func (b *ControlBlocker) DisableControls() {
	if b.invoker == nil {
		return
	}
	if _, err := b.invoker.Invoke(NativeDisableAllControlActions, 0); err != nil {
		b.logger.Debug("Failed to disable control actions", "error", err)
		return
	}
	for _, control := range lookControls {
		if _, err := b.invoker.Invoke(NativeEnableControlAction, 0, control, 0); err != nil {
			b.logger.Debug("Failed to enable control action", "control", control, "error", err)
		}
	}
}
