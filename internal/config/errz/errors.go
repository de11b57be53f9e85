// Package errz provides shared error definitions for the config package and
// the per-script settings files.
package errz

import "errors"

// Top-level error categories
var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
	ErrUnsupportedExtension   = errors.New("unsupported file extension")
)

// Validation specific errors
var (
	ErrDuplicateName        = errors.New("duplicate name")
	ErrEmptyName            = errors.New("empty name")
	ErrInvalidValue         = errors.New("invalid value")
	ErrMissingRequiredField = errors.New("missing required field")
)

// Type specific errors
var (
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidKey       = errors.New("invalid key")
	ErrInvalidLanguage  = errors.New("invalid console language")
	ErrInvalidRuntime   = errors.New("invalid script runtime")
)
