package host

import (
	"github.com/atlanticdynamic/scripthook/internal/console"
)

// consoleWriter turns what console expressions print into console lines.
// Each Write becomes one output batch, so a trailing partial line is printed
// as is.
type consoleWriter struct {
	printer console.Printer
}

func newConsoleWriter(printer console.Printer) *consoleWriter {
	return &consoleWriter{printer: printer}
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	w.printer.PrintInfo(string(p))
	return len(p), nil
}
