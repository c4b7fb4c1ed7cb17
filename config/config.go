// Package config loads and saves process configuration from
// ~/.config/keymidi/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the main configuration structure. Every field has a working
// default; an absent config file is not an error.
type Config struct {
	// Velocity is the fixed note velocity, 0-127. A deployment-time
	// constant, not discovered at runtime.
	Velocity uint8 `json:"velocity,omitempty"`

	// PortName selects an existing MIDI output port by substring match.
	// Empty means open a virtual output port instead.
	PortName string `json:"portName,omitempty"`

	// VirtualPortName names the virtual output port when PortName is empty.
	VirtualPortName string `json:"virtualPortName,omitempty"`

	// BlockIntervalMs is the pump's drain period in milliseconds.
	BlockIntervalMs int `json:"blockIntervalMs,omitempty"`

	// QueueSize is the event queue capacity.
	QueueSize int `json:"queueSize,omitempty"`

	// HoldMs is the terminal source's release hold window. Terminals
	// deliver no key-up, so a key unseen for this long is released. Must
	// exceed the terminal's auto-repeat delay.
	HoldMs int `json:"holdMs,omitempty"`

	// DevicePath pins the evdev keyboard device, e.g. /dev/input/event3.
	// Empty means autodetect.
	DevicePath string `json:"devicePath,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Velocity:        0x70,
		VirtualPortName: "keymidi out",
		BlockIntervalMs: 5,
		QueueSize:       256,
		HoldMs:          600,
	}
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "keymidi"), nil
}

// Path returns the full path to config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Present fields override defaults; absent fields keep them.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) normalize() {
	if c.Velocity > 127 {
		c.Velocity = 127
	}
	if c.BlockIntervalMs <= 0 {
		c.BlockIntervalMs = 5
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.HoldMs <= 0 {
		c.HoldMs = 600
	}
	if c.VirtualPortName == "" {
		c.VirtualPortName = "keymidi out"
	}
}
