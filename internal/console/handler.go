package console

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Handler is a slog.Handler that prints records into a console. Warnings
// and errors become console warnings and errors; everything else is info.
type Handler struct {
	printer Printer
	level   slog.Leveler
	attrs   []slog.Attr
	groups  []string
}

// NewHandler returns a handler printing records at or above level.
func NewHandler(printer Printer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelWarn
	}
	return &Handler{printer: printer, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.printer != nil && level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	prefix := strings.Join(h.groups, ".")
	write := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&b, " %s=%v", key, a.Value.Resolve())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(a)
		return true
	})

	// Braces in log text must not be read as placeholders.
	msg := b.String()
	switch {
	case r.Level >= slog.LevelError:
		h.printer.PrintError(msg)
	case r.Level >= slog.LevelWarn:
		h.printer.PrintWarning(msg)
	default:
		h.printer.PrintInfo(msg)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clone(h.attrs), attrs...)
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}
