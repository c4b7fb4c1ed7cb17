// miditest is a small utility for checking the MIDI setup without running
// the full app.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "note":
		if len(os.Args) < 3 {
			fmt.Println("usage: miditest note <port-substring>")
			return
		}
		sendTestNote(os.Args[2])
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list           - List all MIDI ports")
	fmt.Println("  note <port>    - Send a middle C to the matching output port")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	for i, p := range midi.GetInPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range midi.GetOutPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func sendTestNote(pattern string) {
	var out drivers.Out
	for _, p := range midi.GetOutPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(pattern)) {
			out = p
			break
		}
	}
	if out == nil {
		fmt.Printf("no output port matching %q\n", pattern)
		os.Exit(1)
	}
	if err := out.Open(); err != nil {
		fmt.Printf("open %s: %v\n", out.String(), err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Printf("sending C4 to %s\n", out.String())
	if err := out.Send([]byte{0x91, 60, 0x70}); err != nil {
		fmt.Printf("note on: %v\n", err)
	}
	time.Sleep(500 * time.Millisecond)
	if err := out.Send([]byte{0x81, 60, 0x70}); err != nil {
		fmt.Printf("note off: %v\n", err)
	}
}
