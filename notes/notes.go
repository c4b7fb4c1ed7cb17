// Package notes maps physical key codes to a fixed one-octave chromatic
// scale and its MIDI note numbers.
package notes

// Code is a raw key identifier from the input layer. The canonical code
// space is Linux evdev key codes; other input sources translate into it.
type Code uint16

// Note is one entry of the fixed scale, C4 through C5.
type Note uint8

const (
	C4 Note = iota
	CSharp4
	D4
	DSharp4
	E4
	F4
	FSharp4
	G4
	GSharp4
	A4
	ASharp4
	B4
	C5
)

// Count is the number of notes in the scale.
const Count = int(C5) + 1

// Two interleaved keyboard rows: home row for naturals, the row above for
// sharps. Codes are evdev key codes (KEY_A=30 ... KEY_K=37, KEY_W=17 ...).
var codeToNote = map[Code]Note{
	30: C4, // a
	31: D4, // s
	32: E4, // d
	33: F4, // f
	34: G4, // g
	35: A4, // h
	36: B4, // j
	37: C5, // k

	17: CSharp4, // w
	18: DSharp4, // e
	20: FSharp4, // t
	21: GSharp4, // y
	22: ASharp4, // u
}

var midiValues = [Count]uint8{
	C4:      60,
	CSharp4: 61,
	D4:      62,
	DSharp4: 63,
	E4:      64,
	F4:      65,
	FSharp4: 66,
	G4:      67,
	GSharp4: 68,
	A4:      69,
	ASharp4: 70,
	B4:      71,
	C5:      72,
}

var names = [Count]string{
	C4:      "C4",
	CSharp4: "C#4",
	D4:      "D4",
	DSharp4: "D#4",
	E4:      "E4",
	F4:      "F4",
	FSharp4: "F#4",
	G4:      "G4",
	GSharp4: "G#4",
	A4:      "A4",
	ASharp4: "A#4",
	B4:      "B4",
	C5:      "C5",
}

// FromCode returns the note assigned to a key code, or false if the code
// has no musical assignment.
func FromCode(code Code) (Note, bool) {
	n, ok := codeToNote[code]
	return n, ok
}

// Mapped reports whether a key code has a note assignment.
func Mapped(code Code) bool {
	_, ok := codeToNote[code]
	return ok
}

// MIDIValue returns the MIDI note number, 60 (C4) through 72 (C5).
func (n Note) MIDIValue() uint8 {
	return midiValues[n]
}

// Name returns the pitch name, e.g. "C#4".
func (n Note) Name() string {
	return names[n]
}

// Accidental reports whether the note is a sharp ("black" key).
func (n Note) Accidental() bool {
	switch n {
	case CSharp4, DSharp4, FSharp4, GSharp4, ASharp4:
		return true
	}
	return false
}

func (n Note) String() string {
	return names[n]
}
