package scheduler

import (
	"log/slog"
)

// ErrorReporter receives every fault raised by a script callback. Fatal
// faults have already caused the script to be aborted.
type ErrorReporter interface {
	Report(script *Script, err error, fatal bool)
}

// ReporterFunc adapts a function to ErrorReporter.
type ReporterFunc func(script *Script, err error, fatal bool)

func (f ReporterFunc) Report(script *Script, err error, fatal bool) { f(script, err, fatal) }

// LogReporter writes script faults to a logger.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a reporter logging to logger, or to the default
// logger if nil.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default().WithGroup("scheduler.LogReporter")
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(script *Script, err error, fatal bool) {
	name := "<unknown>"
	if script != nil {
		name = script.Name()
	}
	if fatal {
		r.logger.Error("Unhandled fault in script, aborting", "script", name, "error", err)
		return
	}
	r.logger.Warn("Unhandled fault in script", "script", name, "error", err)
}

// MultiReporter forwards each report to every reporter in order.
type MultiReporter []ErrorReporter

func (m MultiReporter) Report(script *Script, err error, fatal bool) {
	for _, r := range m {
		if r != nil {
			r.Report(script, err, fatal)
		}
	}
}
