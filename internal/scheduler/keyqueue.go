package scheduler

import (
	"sync"

	"github.com/atlanticdynamic/scripthook/internal/input"
)

// keyQueue is a FIFO of key events with its own lock, so producers on the
// input goroutine never contend with the rest of the script's state.
type keyQueue struct {
	mu     sync.Mutex
	events []input.KeyEvent
}

func (q *keyQueue) push(ev input.KeyEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *keyQueue) pop() (input.KeyEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return input.KeyEvent{}, false
	}
	ev := q.events[0]
	q.events[0] = input.KeyEvent{}
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return ev, true
}

func (q *keyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *keyQueue) clear() {
	q.mu.Lock()
	q.events = nil
	q.mu.Unlock()
}
