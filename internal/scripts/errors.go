package scripts

import "errors"

var (
	ErrUnknownRuntime  = errors.New("unknown script runtime")
	ErrScanFailed      = errors.New("failed to scan scripts directory")
	ErrLoadFailed      = errors.New("failed to load script")
	ErrInstantiate     = errors.New("failed to instantiate script")
	ErrSettingsLoad    = errors.New("failed to load script settings")
	ErrSettingsSave    = errors.New("failed to save script settings")
	ErrBadCallbackType = errors.New("script callback is not a function")
)
