// Package midi owns the MIDI output port and the drain-and-emit pump that
// moves key events from the queue onto the wire.
package midi

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"keymidi/config"
)

// Ports matching any of these patterns are never auto-connected
// (virtual/system ports).
var excludedPortPatterns = []string{"midi through", "through port", "dummy"}

// Output holds the rtmidi driver and the open output port. Close when done.
type Output struct {
	drv  *rtmididrv.Driver
	port drivers.Out
}

// Open initialises the rtmidi driver and opens the output port: the
// configured hardware port if PortName is set, otherwise a virtual output
// port other applications can connect to. Any failure here is fatal at
// startup; nothing has entered the run loop yet.
func Open(cfg *config.Config) (*Output, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	var port drivers.Out
	if cfg.PortName != "" {
		port, err = findOut(drv, cfg.PortName)
		if err == nil {
			err = port.Open()
		}
	} else {
		port, err = drv.OpenVirtualOut(cfg.VirtualPortName)
	}
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Output{drv: drv, port: port}, nil
}

// Port returns the open output port; it satisfies Sink.
func (o *Output) Port() drivers.Out {
	return o.port
}

// Close shuts down the port and the driver.
func (o *Output) Close() error {
	if o.port != nil {
		o.port.Close()
	}
	return o.drv.Close()
}

func findOut(drv *rtmididrv.Driver, pattern string) (drivers.Out, error) {
	outs, err := drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}

	want := strings.ToLower(pattern)
	for _, out := range outs {
		name := strings.ToLower(out.String())
		if excludedPort(name) {
			continue
		}
		if strings.Contains(name, want) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no MIDI output port matching %q", pattern)
}

func excludedPort(name string) bool {
	for _, p := range excludedPortPatterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
