package midi

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"

	"keymidi/keys"
)

// MIDI status nibbles and the fixed output channel (channel 1, so the
// status bytes on the wire are 0x91/0x81).
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80

	channel uint8 = 0x01
)

// Sink accepts one raw MIDI message per call. drivers.Out satisfies it.
type Sink interface {
	Send(data []byte) error
}

// Flush drains every queued event and writes one 3-byte note message per
// event, in receipt order. A failed write is logged and the rest of the
// batch still goes out; aborting mid-batch would strand note-offs and
// leave notes stuck on. Returns the number of events drained.
//
// Flush runs on the pump goroutine at real-time cadence: it never blocks
// and does no per-event allocation.
func Flush(q *keys.Queue, sink Sink, velocity uint8, log *zap.Logger) int {
	var buf [3]byte
	n := 0
	for {
		ev, ok := q.TryPop()
		if !ok {
			return n
		}
		n++

		status := NoteOff | channel
		if ev.Pressed {
			status = NoteOn | channel
		}
		buf[0] = status
		buf[1] = ev.Note.MIDIValue()
		buf[2] = velocity

		if err := sink.Send(buf[:]); err != nil {
			log.Warn("midi write failed",
				zap.String("note", ev.Note.Name()),
				zap.Bool("pressed", ev.Pressed),
				zap.Error(err))
		}
	}
}

// Pump periodically drains the queue onto the sink, standing in for a
// real-time audio-callback: fixed short interval, locked OS thread, never
// blocking on the queue.
type Pump struct {
	queue    *keys.Queue
	sink     Sink
	velocity uint8
	interval time.Duration
	log      *zap.Logger
}

// NewPump creates a pump. Interval <= 0 defaults to 5ms, well under the
// point where added latency becomes audible.
func NewPump(q *keys.Queue, sink Sink, velocity uint8, interval time.Duration, log *zap.Logger) *Pump {
	if interval <= 0 {
		interval = 5 * time.Millisecond
	}
	return &Pump{
		queue:    q,
		sink:     sink,
		velocity: velocity,
		interval: interval,
		log:      log,
	}
}

// Run drains until ctx is cancelled, then performs one final flush so
// releases already queued at shutdown still reach the port. Blocking -
// run in a goroutine.
func (p *Pump) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			Flush(p.queue, p.sink, p.velocity, p.log)
			return
		case <-ticker.C:
			Flush(p.queue, p.sink, p.velocity, p.log)
		}
	}
}
