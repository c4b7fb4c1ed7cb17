package midi

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"keymidi/keys"
	"keymidi/notes"
)

// recordingSink captures every message; failAt makes the nth send fail.
type recordingSink struct {
	sent   [][]byte
	failAt int
}

func (s *recordingSink) Send(data []byte) error {
	n := len(s.sent) + 1
	s.sent = append(s.sent, append([]byte(nil), data...))
	if s.failAt != 0 && n == s.failAt {
		return errors.New("port busy")
	}
	return nil
}

func TestFlushByteLayout(t *testing.T) {
	q := keys.NewQueue(8)
	q.Push(keys.Event{Note: notes.C4, Pressed: true})
	q.Push(keys.Event{Note: notes.C4, Pressed: false})

	sink := &recordingSink{}
	n := Flush(q, sink, 0x70, zap.NewNop())
	if n != 2 {
		t.Fatalf("Flush drained %d, want 2", n)
	}

	want := [][]byte{
		{0x91, 60, 0x70}, // note-on, channel 1, C4
		{0x81, 60, 0x70}, // note-off
	}
	for i := range want {
		if !bytes.Equal(sink.sent[i], want[i]) {
			t.Errorf("message %d: got % x, want % x", i, sink.sent[i], want[i])
		}
	}
}

func TestFlushVelocityConfigurable(t *testing.T) {
	for _, vel := range []uint8{0x70, 0x7F} {
		q := keys.NewQueue(8)
		q.Push(keys.Event{Note: notes.A4, Pressed: true})

		sink := &recordingSink{}
		Flush(q, sink, vel, zap.NewNop())
		if got := sink.sent[0][2]; got != vel {
			t.Errorf("velocity byte: got %#x, want %#x", got, vel)
		}
	}
}

func TestFlushPreservesOrder(t *testing.T) {
	q := keys.NewQueue(16)
	seq := []keys.Event{
		{Note: notes.C4, Pressed: true},
		{Note: notes.E4, Pressed: true},
		{Note: notes.G4, Pressed: true},
		{Note: notes.G4, Pressed: false},
		{Note: notes.E4, Pressed: false},
		{Note: notes.C4, Pressed: false},
	}
	for _, ev := range seq {
		q.Push(ev)
	}

	sink := &recordingSink{}
	Flush(q, sink, 0x70, zap.NewNop())
	if len(sink.sent) != len(seq) {
		t.Fatalf("sent %d messages, want %d", len(sink.sent), len(seq))
	}
	for i, ev := range seq {
		if sink.sent[i][1] != ev.Note.MIDIValue() {
			t.Errorf("message %d: note %d, want %d", i, sink.sent[i][1], ev.Note.MIDIValue())
		}
		wantStatus := byte(0x81)
		if ev.Pressed {
			wantStatus = 0x91
		}
		if sink.sent[i][0] != wantStatus {
			t.Errorf("message %d: status %#x, want %#x", i, sink.sent[i][0], wantStatus)
		}
	}
}

func TestFlushContinuesPastWriteFailure(t *testing.T) {
	q := keys.NewQueue(8)
	q.Push(keys.Event{Note: notes.C4, Pressed: true})
	q.Push(keys.Event{Note: notes.D4, Pressed: true})
	q.Push(keys.Event{Note: notes.C4, Pressed: false})

	sink := &recordingSink{failAt: 2}
	n := Flush(q, sink, 0x70, zap.NewNop())
	if n != 3 {
		t.Fatalf("Flush drained %d, want 3 despite one write failure", n)
	}
	if len(sink.sent) != 3 {
		t.Fatalf("sent %d messages, want 3", len(sink.sent))
	}
	// The message after the failure still went out.
	if sink.sent[2][0] != 0x81 || sink.sent[2][1] != 60 {
		t.Errorf("post-failure message: got % x", sink.sent[2])
	}
}

func TestFlushEmptyQueue(t *testing.T) {
	q := keys.NewQueue(8)
	sink := &recordingSink{}
	if n := Flush(q, sink, 0x70, zap.NewNop()); n != 0 {
		t.Errorf("Flush on empty queue drained %d", n)
	}
	if len(sink.sent) != 0 {
		t.Errorf("empty queue produced %d messages", len(sink.sent))
	}
}

func TestPumpFinalFlushOnCancel(t *testing.T) {
	q := keys.NewQueue(8)
	q.Push(keys.Event{Note: notes.C4, Pressed: true})
	q.Push(keys.Event{Note: notes.C4, Pressed: false})

	sink := &recordingSink{}
	pump := NewPump(q, sink, 0x70, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pump.Run(ctx) // returns after the final flush

	if len(sink.sent) != 2 {
		t.Fatalf("final flush sent %d messages, want 2", len(sink.sent))
	}
}
