package testutil

import "sync"

// MemoryClipboard is an in-process clipboard for tests that must not touch the
// system clipboard
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// ReadText returns the last text written
func (c *MemoryClipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

// WriteText replaces the clipboard content
func (c *MemoryClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}
