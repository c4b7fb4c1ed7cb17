package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"keymidi/keys"
	"keymidi/notes"
)

const testHold = 100 * time.Millisecond

func newTestModel(queueSize int) (Model, *keys.Queue) {
	q := keys.NewQueue(queueSize)
	tr := keys.NewTracker(q)
	return NewModel(tr, testHold, "test out", zap.NewNop()), q
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func drain(q *keys.Queue) []keys.Event {
	var out []keys.Event
	for {
		ev, ok := q.TryPop()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestKeyPressEmitsSingleEvent(t *testing.T) {
	m, q := newTestModel(16)

	// Terminal auto-repeat delivers the same key over and over.
	m, _ = update(t, m, keyPress("a"))
	m, _ = update(t, m, keyPress("a"))
	m, _ = update(t, m, keyPress("a"))

	got := drain(q)
	if len(got) != 1 || got[0] != (keys.Event{Note: notes.C4, Pressed: true}) {
		t.Fatalf("got %v, want single C4 press", got)
	}
	if m.Err() != nil {
		t.Errorf("unexpected error: %v", m.Err())
	}
}

func TestHoldWindowSynthesizesRelease(t *testing.T) {
	m, q := newTestModel(16)
	m, _ = update(t, m, keyPress("a"))
	drain(q)

	// A tick inside the window must not release.
	m, _ = update(t, m, tickMsg(time.Now()))
	if got := drain(q); len(got) != 0 {
		t.Fatalf("early tick released: %v", got)
	}

	// A tick past the window does.
	m, _ = update(t, m, tickMsg(time.Now().Add(2*testHold)))
	got := drain(q)
	if len(got) != 1 || got[0] != (keys.Event{Note: notes.C4, Pressed: false}) {
		t.Fatalf("got %v, want single C4 release", got)
	}
}

func TestRepeatExtendsHoldWindow(t *testing.T) {
	m, q := newTestModel(16)
	m, _ = update(t, m, keyPress("g"))
	drain(q)

	// Backdate the press so it is about to expire, then let a repeat
	// arrive: the window must restart from now.
	m.lastSeen[keyCodes["g"]] = time.Now().Add(-testHold)
	m, _ = update(t, m, keyPress("g"))
	m, _ = update(t, m, tickMsg(time.Now().Add(testHold/2)))
	if got := drain(q); len(got) != 0 {
		t.Fatalf("repeat did not extend the hold window: %v", got)
	}
}

func TestEscQuitsAndReleasesHeldKeys(t *testing.T) {
	m, q := newTestModel(16)
	m, _ = update(t, m, keyPress("a"))
	m, _ = update(t, m, keyPress("s"))
	drain(q)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("esc command is not tea.Quit")
	}

	got := drain(q)
	if len(got) != 2 {
		t.Fatalf("quit released %d keys, want 2: %v", len(got), got)
	}
	for _, ev := range got {
		if ev.Pressed {
			t.Errorf("quit emitted a press: %v", ev)
		}
	}
	if m.Err() != nil {
		t.Errorf("clean quit carries error: %v", m.Err())
	}
}

func TestUnmappedTerminalKeyIgnored(t *testing.T) {
	m, q := newTestModel(16)
	m, _ = update(t, m, keyPress("z"))
	m, _ = update(t, m, keyPress("1"))
	if got := drain(q); len(got) != 0 {
		t.Fatalf("unmapped keys produced events: %v", got)
	}
	if m.Err() != nil {
		t.Errorf("unexpected error: %v", m.Err())
	}
}

func TestQueueFullEndsSession(t *testing.T) {
	m, q := newTestModel(1)
	m, _ = update(t, m, keyPress("a"))
	if got := q.Len(); got != 1 {
		t.Fatalf("queue length %d, want 1", got)
	}

	m, cmd := update(t, m, keyPress("s"))
	if m.Err() == nil {
		t.Fatal("full queue should surface a fatal error")
	}
	if cmd == nil {
		t.Fatal("full queue should quit the session")
	}
}

func TestViewShowsPortAndKeys(t *testing.T) {
	m, _ := newTestModel(16)
	v := m.View()
	if v == "" {
		t.Fatal("empty view")
	}
	for _, want := range []string{"keymidi", "test out", "C4", "esc/q"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
