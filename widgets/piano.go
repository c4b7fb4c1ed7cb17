// Package widgets renders terminal UI fragments with lipgloss.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"keymidi/notes"
)

var (
	naturalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sharpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pressedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Reverse(true).Bold(true)
)

var naturals = []notes.Note{
	notes.C4, notes.D4, notes.E4, notes.F4,
	notes.G4, notes.A4, notes.B4, notes.C5,
}

// sharp above the gap between natural i and i+1
var sharps = map[int]notes.Note{
	0: notes.CSharp4,
	1: notes.DSharp4,
	3: notes.FSharp4,
	4: notes.GSharp4,
	5: notes.ASharp4,
}

const cellWidth = 4

// RenderPiano renders the mapped octave as two keyboard rows, sharps above
// naturals. Each cap shows its bound terminal key (from label); pressed
// keys render reversed.
func RenderPiano(isPressed func(notes.Note) bool, label func(notes.Note) string) string {
	var top, mid, low strings.Builder

	top.WriteString(strings.Repeat(" ", cellWidth/2))
	for i := range naturals[:len(naturals)-1] {
		n, ok := sharps[i]
		if !ok {
			top.WriteString(strings.Repeat(" ", cellWidth))
			continue
		}
		top.WriteString(renderCap(label(n), sharpStyle, isPressed(n)))
	}

	for _, n := range naturals {
		mid.WriteString(renderCap(label(n), naturalStyle, isPressed(n)))
		low.WriteString(fmt.Sprintf("%-*s", cellWidth, n.Name()))
	}

	return top.String() + "\n" + mid.String() + "\n" + sharpStyle.Render(low.String())
}

func renderCap(label string, style lipgloss.Style, pressed bool) string {
	text := fmt.Sprintf("[%s]", label)
	if pressed {
		text = pressedStyle.Render(text)
	} else {
		text = style.Render(text)
	}
	return text + " "
}

// KeySection groups related key bindings for the help block.
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description.
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderKeyHelp formats key bindings in a friendly way.
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}
