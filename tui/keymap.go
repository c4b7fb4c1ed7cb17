package tui

import "keymidi/notes"

// Terminal keys for the two note rows, translated into the canonical
// evdev code space so the one note table serves both input sources.
var keyCodes = map[string]notes.Code{
	"a": 30, "s": 31, "d": 32, "f": 33,
	"g": 34, "h": 35, "j": 36, "k": 37,

	"w": 17, "e": 18, "t": 20, "y": 21, "u": 22,
}

var (
	noteLabels = map[notes.Note]string{}
	noteCodes  = map[notes.Note]notes.Code{}
)

func init() {
	for k, code := range keyCodes {
		if n, ok := notes.FromCode(code); ok {
			noteLabels[n] = k
			noteCodes[n] = code
		}
	}
}

func labelFor(n notes.Note) string {
	if l, ok := noteLabels[n]; ok {
		return l
	}
	return "?"
}
