//go:build !linux

// Package input reads raw key press/release events from the physical
// keyboard. Only Linux (evdev) is supported; other platforms use the
// terminal UI source instead.
package input

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"keymidi/notes"
)

// Device is a placeholder on non-Linux platforms.
type Device struct{}

var errUnsupported = errors.New("input: raw keyboard capture requires linux (use the terminal UI source)")

// Open always fails on this platform.
func Open(path string, log *zap.Logger) (*Device, error) {
	return nil, errUnsupported
}

func (d *Device) Name() string { return "" }

func (d *Device) Close() error { return nil }

func (d *Device) Run(ctx context.Context, emit func(code notes.Code, down bool) error) error {
	return errUnsupported
}
