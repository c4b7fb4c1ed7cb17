package keys

import "errors"

// ErrFull is returned by Push when the queue is at capacity. Losing an
// event is a correctness bug (a stuck note), so callers surface it rather
// than dropping silently.
var ErrFull = errors.New("keys: event queue full")

// DefaultQueueSize comfortably exceeds any keystroke burst that can occur
// within one audio block.
const DefaultQueueSize = 256

// Queue is the single-producer/single-consumer FIFO between the input
// goroutine and the MIDI pump. Push never blocks the producer; TryPop
// never blocks, sleeps, or allocates on the consumer side.
type Queue struct {
	ch chan Event
}

// NewQueue creates a queue with the given capacity. Capacity <= 0 uses
// DefaultQueueSize.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &Queue{ch: make(chan Event, capacity)}
}

// Push enqueues an event without blocking. Returns ErrFull if the consumer
// has fallen impossibly far behind.
func (q *Queue) Push(ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrFull
	}
}

// TryPop dequeues the oldest event, or returns false if the queue is
// empty. Safe to call from the pump at any rate.
func (q *Queue) TryPop() (Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return Event{}, false
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.ch)
}
