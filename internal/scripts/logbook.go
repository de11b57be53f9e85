package scripts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"
)

// DefaultLogBookSize bounds how many records are kept per script.
const DefaultLogBookSize = 200

// LogBook keeps the recent log records of every script so they can be
// replayed on demand.
type LogBook struct {
	base    slog.Handler
	maxSize int

	mu         sync.Mutex
	collectors map[string]*loglater.LogCollector
}

// NewLogBook returns a log book whose script handlers also forward to base.
func NewLogBook(base slog.Handler, maxSize int) *LogBook {
	if maxSize <= 0 {
		maxSize = DefaultLogBookSize
	}
	return &LogBook{
		base:       base,
		maxSize:    maxSize,
		collectors: make(map[string]*loglater.LogCollector),
	}
}

// Handler returns the handler capturing the named script's logs. Each call
// starts a fresh history for that name.
func (b *LogBook) Handler(name string) slog.Handler {
	collector := loglater.NewLogCollector(
		b.base,
		loglater.WithStorage(storage.NewRecordStorage(storage.WithMaxSize(b.maxSize))),
	)
	b.mu.Lock()
	b.collectors[strings.ToLower(name)] = collector
	b.mu.Unlock()
	return collector
}

func (b *LogBook) collector(name string) (*loglater.LogCollector, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.collectors[strings.ToLower(name)]
	return c, ok
}

// Records returns the captured records of the named script.
func (b *LogBook) Records(name string) ([]storage.Record, error) {
	c, ok := b.collector(name)
	if !ok {
		return nil, fmt.Errorf("no log history for script %q", name)
	}
	return c.GetLogs(), nil
}

// Replay sends the named script's history to handler in order.
func (b *LogBook) Replay(ctx context.Context, name string, handler slog.Handler) error {
	c, ok := b.collector(name)
	if !ok {
		return fmt.Errorf("no log history for script %q", name)
	}
	return c.PlayLogsCtx(ctx, handler)
}
