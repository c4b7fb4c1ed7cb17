// keymidi turns the computer keyboard into a MIDI controller: key presses
// and releases become note-on/note-off messages on a virtual MIDI output
// port. Two input sources: the terminal UI (default, portable) and raw
// evdev capture (-raw, linux, real key releases).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"keymidi/config"
	"keymidi/input"
	"keymidi/keys"
	"keymidi/logging"
	"keymidi/midi"
	"keymidi/tui"
)

func main() {
	raw := flag.Bool("raw", false, "read the keyboard via evdev instead of the terminal UI (linux)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "keymidi: config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}

	log, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keymidi: logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Port setup failures are fatal before anything starts running.
	out, err := midi.Open(cfg)
	if err != nil {
		log.Error("midi setup failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "keymidi: midi setup: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	portName := cfg.PortName
	if portName == "" {
		portName = cfg.VirtualPortName
	}
	log.Info("midi output open", zap.String("port", portName), zap.Uint8("velocity", cfg.Velocity))

	q := keys.NewQueue(cfg.QueueSize)
	tracker := keys.NewTracker(q)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	interval := time.Duration(cfg.BlockIntervalMs) * time.Millisecond
	pump := midi.NewPump(q, out.Port(), cfg.Velocity, interval, log)
	pumpDone := make(chan struct{})
	go func() {
		pump.Run(ctx)
		close(pumpDone)
	}()

	if *raw {
		err = runRaw(ctx, cfg, tracker, log)
	} else {
		err = runTUI(cfg, tracker, portName, log)
	}

	// Stop the pump; its final flush delivers releases queued at shutdown.
	cancel()
	<-pumpDone

	if err != nil {
		log.Error("session ended with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "keymidi: %v\n", err)
		os.Exit(1)
	}
	log.Info("clean shutdown")
}

func runTUI(cfg *config.Config, tracker *keys.Tracker, portName string, log *zap.Logger) error {
	m := tui.NewModel(tracker, time.Duration(cfg.HoldMs)*time.Millisecond, portName, log)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(tui.Model); ok {
		return fm.Err()
	}
	return nil
}

func runRaw(ctx context.Context, cfg *config.Config, tracker *keys.Tracker, log *zap.Logger) error {
	dev, err := input.Open(cfg.DevicePath, log)
	if err != nil {
		return err
	}
	defer dev.Close()

	fmt.Printf("keymidi: reading %s, press Esc to quit\n", dev.Name())
	return dev.Run(ctx, tracker.OnRawEvent)
}
