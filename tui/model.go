// Package tui is the terminal input source and piano display. Terminals
// deliver key presses but no releases, so a release is synthesized when a
// key has not been seen for the hold window; auto-repeat inside the window
// just extends it.
package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"keymidi/keys"
	"keymidi/notes"
	"keymidi/widgets"
)

// scanInterval is how often synthesized releases are checked for.
const scanInterval = 25 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

type Model struct {
	tracker  *keys.Tracker
	hold     time.Duration
	log      *zap.Logger
	portName string

	lastSeen map[notes.Code]time.Time
	err      error
	quitting bool
}

// NewModel creates the TUI model. portName is shown in the header so users
// know where to connect their synth.
func NewModel(tracker *keys.Tracker, hold time.Duration, portName string, log *zap.Logger) Model {
	return Model{
		tracker:  tracker,
		hold:     hold,
		log:      log,
		portName: portName,
		lastSeen: make(map[notes.Code]time.Time),
	}
}

// Err returns the fatal error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

func tick() tea.Cmd {
	return tea.Tick(scanInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch s := msg.String(); s {
		case "esc", "ctrl+c", "q":
			// Intercepted before the tracker: shutdown, no note event.
			m.quitting = true
			m.releaseAll()
			return m, tea.Quit

		default:
			code, ok := keyCodes[s]
			if !ok {
				return m, nil
			}
			m.lastSeen[code] = time.Now()
			if err := m.tracker.OnRawEvent(code, true); err != nil {
				// A rejected event means a stuck note; end the session.
				m.err = err
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tickMsg:
		now := time.Time(msg)
		for code, seen := range m.lastSeen {
			if now.Sub(seen) < m.hold {
				continue
			}
			delete(m.lastSeen, code)
			if err := m.tracker.OnRawEvent(code, false); err != nil {
				m.err = err
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, tick()
	}

	return m, nil
}

// releaseAll emits a release for every held key so nothing stays stuck on
// when the session ends; the pump's final flush carries them out.
func (m *Model) releaseAll() {
	for code := range m.lastSeen {
		delete(m.lastSeen, code)
		if err := m.tracker.OnRawEvent(code, false); err != nil {
			m.log.Error("release on shutdown failed", zap.Error(err))
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		if m.err != nil {
			return errStyle.Render("fatal: "+m.err.Error()) + "\n"
		}
		return ""
	}

	header := titleStyle.Render("keymidi") + dimStyle.Render("  →  "+m.portName)

	piano := widgets.RenderPiano(
		func(n notes.Note) bool { return m.tracker.Held(noteCodes[n]) },
		labelFor,
	)

	help := widgets.RenderKeyHelp([]widgets.KeySection{
		{Title: "Play", Keys: []widgets.KeyBinding{
			{Key: "a-k", Desc: "white keys, C4 to C5"},
			{Key: "w e t y u", Desc: "black keys"},
		}},
		{Title: "Other", Keys: []widgets.KeyBinding{
			{Key: "esc/q", Desc: "quit"},
		}},
	})

	return "\n " + header + "\n\n" + indent(piano) + "\n\n" + indent(help) + "\n"
}

func indent(s string) string {
	return " " + strings.ReplaceAll(s, "\n", "\n ")
}
