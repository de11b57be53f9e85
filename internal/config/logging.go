package config

import (
	"errors"
	"fmt"

	"github.com/atlanticdynamic/scripthook/internal/config/errz"
)

// LoggingConfig contains logging-related configuration options
type LoggingConfig struct {
	Format LogFormat `toml:"format"`
	Level  LogLevel  `toml:"level"`

	// Output is "stdout", "stderr", or a file path. Ignored when Directory is set.
	Output string `toml:"output" env_interpolation:"yes"`

	// Directory receives one dated log file per day.
	Directory string `toml:"directory" env_interpolation:"yes"`

	// MaxAgeDays removes dated log files older than this many days at
	// startup. Zero keeps everything.
	MaxAgeDays int `toml:"max_age_days"`
}

// LogFormat represents the logging output format
type LogFormat string

// LogLevel represents the logging verbosity level
type LogLevel string

const (
	LogFormatUnspecified LogFormat = ""
	LogFormatText        LogFormat = "text"
	LogFormatJSON        LogFormat = "json"
)

const (
	LogLevelUnspecified LogLevel = ""
	LogLevelTrace       LogLevel = "trace"
	LogLevelDebug       LogLevel = "debug"
	LogLevelInfo        LogLevel = "info"
	LogLevelWarn        LogLevel = "warn"
	LogLevelError       LogLevel = "error"
)

// String returns the string representation of LogFormat
func (f LogFormat) String() string {
	return string(f)
}

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	return string(l)
}

// IsValid checks if the LogFormat is valid
func (f LogFormat) IsValid() bool {
	switch f {
	case LogFormatUnspecified, LogFormatText, LogFormatJSON:
		return true
	default:
		return false
	}
}

// IsValid checks if the LogLevel is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelUnspecified, LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// Validate checks the logging section.
func (lc *LoggingConfig) Validate() error {
	var errs []error
	if !lc.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s", errz.ErrInvalidLogFormat, lc.Format))
	}
	if !lc.Level.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s", errz.ErrInvalidLogLevel, lc.Level))
	}
	if lc.MaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("%w: logging.max_age_days must not be negative", errz.ErrInvalidValue))
	}
	return errors.Join(errs...)
}
