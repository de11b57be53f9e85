package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/config"
	"github.com/atlanticdynamic/scripthook/internal/logging"
	"github.com/atlanticdynamic/scripthook/internal/logging/writers"
)

// logFilePrefix names the dated files written to logging.directory.
const logFilePrefix = "scripthook"

// SetupLogger configures the default logger based on provided log level
func SetupLogger(logLevel string) {
	logging.SetupLogger(logLevel)
}

// openLogHandler builds the handler described by the logging section. A
// non-empty levelOverride (from --log-level) wins over the configured level.
// The returned closer releases the log file, if one was opened.
func openLogHandler(lc config.LoggingConfig, levelOverride string, now time.Time) (slog.Handler, io.Closer, error) {
	level := lc.Level.String()
	if levelOverride != "" {
		level = levelOverride
	}

	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	switch {
	case lc.Directory != "":
		if lc.MaxAgeDays > 0 {
			maxAge := time.Duration(lc.MaxAgeDays) * 24 * time.Hour
			removed, err := writers.DeleteOldLogs(lc.Directory, logFilePrefix, maxAge, now)
			if err != nil {
				slog.Warn("Failed to delete old log files", "dir", lc.Directory, "error", err)
			}
			for _, name := range removed {
				slog.Debug("Deleted old log file", "name", name)
			}
		}
		f, err := writers.CreateDatedFile(lc.Directory, logFilePrefix, now)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f
	case lc.Output == "":
		w = os.Stderr
	default:
		out, err := writers.CreateWriter(lc.Output)
		if err != nil {
			return nil, nil, err
		}
		w = out
		if f, ok := out.(*os.File); ok && f != os.Stdout && f != os.Stderr {
			closer = f
		}
	}

	handler, err := logging.NewHandler(lc.Format.String(), level, w)
	if err != nil {
		_ = closer.Close()
		return nil, nil, fmt.Errorf("failed to create log handler: %w", err)
	}
	return handler, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
