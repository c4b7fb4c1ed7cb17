//go:build linux

// Package input reads raw key press/release events from the physical
// keyboard via the Linux evdev interface.
package input

import (
	"context"
	"fmt"
	"strings"

	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"

	"keymidi/notes"
)

// Device is an open evdev keyboard.
type Device struct {
	dev  *evdev.InputDevice
	name string
	log  *zap.Logger
}

// Open opens the keyboard at path, or autodetects one when path is empty.
// Reading /dev/input usually needs membership of the input group or root.
func Open(path string, log *zap.Logger) (*Device, error) {
	if path == "" {
		var err error
		path, err = autodetect()
		if err != nil {
			return nil, err
		}
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	name, err := dev.Name()
	if err != nil {
		name = path
	}
	log.Info("keyboard opened", zap.String("device", path), zap.String("name", name))
	return &Device{dev: dev, name: name, log: log}, nil
}

// Name returns the device's advertised name.
func (d *Device) Name() string {
	return d.name
}

// Close releases the device.
func (d *Device) Close() error {
	return d.dev.Close()
}

// Run reads key events and feeds them to emit until ctx is cancelled or
// the escape key is pressed. Escape is intercepted here and never reaches
// the tracker. Auto-repeat downs (evdev value 2) are dropped at the
// source; the tracker's active-set check suppresses any that a driver
// reports as plain downs instead.
func (d *Device) Run(ctx context.Context, emit func(code notes.Code, down bool) error) error {
	// ReadOne blocks; closing the device unblocks it on cancellation.
	stop := context.AfterFunc(ctx, func() { d.dev.Close() })
	defer stop()

	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read %s: %w", d.name, err)
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}

		const repeat = 2
		if ev.Value == repeat {
			continue
		}
		down := ev.Value == 1

		if ev.Code == evdev.KEY_ESC {
			if down {
				d.log.Info("escape pressed, shutting down")
				return nil
			}
			continue
		}

		if err := emit(notes.Code(ev.Code), down); err != nil {
			return err
		}
	}
}

// autodetect picks the first device that looks like a keyboard: EV_KEY
// capable and with the note rows present among its key codes.
func autodetect() (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("list input devices: %w", err)
	}

	var fallback string
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		capable := hasKeys(dev)
		dev.Close()
		if !capable {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), "keyboard") {
			return p.Path, nil
		}
		if fallback == "" {
			fallback = p.Path
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("no keyboard-capable input device found (check /dev/input permissions)")
}

func hasKeys(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		if t == evdev.EV_KEY {
			return true
		}
	}
	return false
}
