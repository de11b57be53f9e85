package console

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Severity tags an output line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Line is one entry of console output.
type Line struct {
	Time     time.Time
	Severity Severity
	Text     string
}

func (l Line) String() string {
	return fmt.Sprintf("[%s] [%s] %s", l.Time.Format(time.TimeOnly), l.Severity, l.Text)
}

// splitLines breaks msg on newlines and drops empty entries.
func splitLines(msg string) []string {
	parts := strings.Split(msg, "\n")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSuffix(p, "\r")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// outputQueue is a FIFO of line batches. Any goroutine may push; only the
// frame goroutine pops.
type outputQueue struct {
	mu      sync.Mutex
	batches [][]Line
}

func (q *outputQueue) push(batch []Line) {
	if len(batch) == 0 {
		return
	}
	q.mu.Lock()
	q.batches = append(q.batches, batch)
	q.mu.Unlock()
}

func (q *outputQueue) pop() ([]Line, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.batches) == 0 {
		return nil, false
	}
	batch := q.batches[0]
	q.batches[0] = nil
	q.batches = q.batches[1:]
	return batch, true
}

func (q *outputQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.batches)
}
