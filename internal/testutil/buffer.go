package testutil

import (
	"bytes"
	"strings"
	"sync"
)

// ThreadSafeBuffer collects what a host goroutine writes (transcripts, log
// records) while a test polls it from another goroutine.
type ThreadSafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *ThreadSafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *ThreadSafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Count reports how many times substr has been written so far.
func (b *ThreadSafeBuffer) Count(substr string) int {
	return strings.Count(b.String(), substr)
}
