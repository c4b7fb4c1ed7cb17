// Package keys turns raw key up/down observations into a clean stream of
// press/release events and carries them to the MIDI output side.
package keys

import (
	"keymidi/notes"
)

// Event is one discrete press or release transition for a mapped key.
// It crosses the queue exactly once, producer to consumer.
type Event struct {
	Note    notes.Note
	Pressed bool
}

// Tracker maintains the set of currently-down key codes and suppresses
// hardware auto-repeat. It is owned by the input goroutine; only that
// goroutine may call OnRawEvent.
type Tracker struct {
	active map[notes.Code]struct{}
	queue  *Queue
}

// NewTracker creates a tracker that pushes transition events into q.
func NewTracker(q *Queue) *Tracker {
	return &Tracker{
		active: make(map[notes.Code]struct{}),
		queue:  q,
	}
}

// OnRawEvent consumes one raw (code, down) observation. Repeated downs for
// a held key are no-ops; releases are processed unconditionally. Unmapped
// codes only update the active set. The returned error is non-nil only
// when the queue rejected an event; a dropped event would leave a note
// stuck on, so callers must treat it as fatal to the session.
func (t *Tracker) OnRawEvent(code notes.Code, down bool) error {
	if down {
		if _, held := t.active[code]; held {
			// Auto-repeat of a held key.
			return nil
		}
		t.active[code] = struct{}{}
	} else {
		delete(t.active, code)
	}

	note, ok := notes.FromCode(code)
	if !ok {
		return nil
	}
	return t.queue.Push(Event{Note: note, Pressed: down})
}

// Held reports whether a code is currently considered down.
func (t *Tracker) Held(code notes.Code) bool {
	_, ok := t.active[code]
	return ok
}

// HeldCount returns the number of codes currently considered down.
func (t *Tracker) HeldCount() int {
	return len(t.active)
}
