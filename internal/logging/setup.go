package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Supported handler formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by NewHandler for formats other than text and json.
var ErrUnknownFormat = errors.New("unknown log format")

// ParseLevel maps a level name to a slog level. "trace" maps to debug,
// unrecognized names map to info.
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func charmLevel(level slog.Level) log.Level {
	switch {
	case level <= slog.LevelDebug:
		return log.DebugLevel
	case level >= slog.LevelError:
		return log.ErrorLevel
	case level >= slog.LevelWarn:
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

// SetupHandlerText configures a charm text handler for the given level. A nil
// writer logs to stderr. Debug and trace add timestamps; trace adds callers.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	name := strings.ToLower(logLevel)
	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: name == "trace" || name == "debug",
		ReportCaller:    name == "trace",
		Level:           charmLevel(ParseLevel(logLevel)),
	})
}

// SetupHandlerJSON configures a JSON handler for the given level. A nil writer
// logs to stdout. Trace adds source locations.
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     ParseLevel(logLevel),
		AddSource: strings.EqualFold(logLevel, "trace"),
	})
}

// NewHandler builds a handler in the named format. An empty format is text.
func NewHandler(format, logLevel string, writer io.Writer) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return SetupHandlerText(logLevel, writer), nil
	case FormatJSON:
		return SetupHandlerJSON(logLevel, writer), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// SetupLogger configures the default logger based on provided log level
func SetupLogger(logLevel string) {
	slog.SetDefault(slog.New(SetupHandlerText(logLevel, nil)))
}

// Tee fans every record out to all of its handlers, e.g. a log file and the
// in-game console.
type Tee []slog.Handler

// NewTee drops nil handlers and returns the rest as one handler.
func NewTee(handlers ...slog.Handler) Tee {
	tee := make(Tee, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			tee = append(tee, h)
		}
	}
	return tee
}

func (t Tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t Tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(Tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t Tee) WithGroup(name string) slog.Handler {
	out := make(Tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
