// Command access-panel counts room occupants from entry, exit and reset
// buttons and shows the result on a display, an RGB LED, an LED matrix and a buzzer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/access-panel/internal/config"
	"github.com/sweeney/access-panel/internal/events"
	"github.com/sweeney/access-panel/internal/feedback"
	"github.com/sweeney/access-panel/internal/gpio"
	"github.com/sweeney/access-panel/internal/logic"
	"github.com/sweeney/access-panel/internal/occupancy"
	"github.com/sweeney/access-panel/internal/panel"
	"github.com/sweeney/access-panel/internal/status"
)

func main() {
	fs := flag.CommandLine
	configPath := fs.String("config", "", "YAML config file (flags override it)")
	printState := fs.Bool("print-state", false, "Print current button levels and exit")
	opts := registerFlags(fs, config.Default())

	flag.Parse()

	cfg, err := loadConfig(*configPath, fs, opts)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// flagValues holds the flags that can override the config file.
type flagValues struct {
	capacity     *int
	queueDepth   *int
	debounce     *time.Duration
	statusPeriod *time.Duration
	heartbeat    *time.Duration
	chip         *string
	pinEntry     *int
	pinExit      *int
	pinReset     *int
	pinBuzzer    *int
	noDisplay    *bool
	noMatrix     *bool
	noBuzzer     *bool
}

func registerFlags(fs *flag.FlagSet, def config.Config) *flagValues {
	return &flagValues{
		capacity:     fs.Int("capacity", def.Capacity, "Maximum number of occupants"),
		queueDepth:   fs.Int("queue-depth", def.QueueDepth, "Event channel depth"),
		debounce:     fs.Duration("debounce", def.Debounce, "Debounce duration"),
		statusPeriod: fs.Duration("status-period", def.StatusPeriod, "Status refresh interval"),
		heartbeat:    fs.Duration("heartbeat", def.Heartbeat, "Heartbeat interval (0 to disable)"),
		chip:         fs.String("chip", def.Chip, "GPIO chip for buttons and LED"),
		pinEntry:     fs.Int("pin-entry", def.Pins.Entry, "BCM pin number for the entry button"),
		pinExit:      fs.Int("pin-exit", def.Pins.Exit, "BCM pin number for the exit button"),
		pinReset:     fs.Int("pin-reset", def.Pins.Reset, "BCM pin number for the reset button"),
		pinBuzzer:    fs.Int("pin-buzzer", def.Pins.Buzzer, "BCM pin number for the buzzer"),
		noDisplay:    fs.Bool("no-display", false, "Disable the SSD1306 display"),
		noMatrix:     fs.Bool("no-matrix", false, "Disable the LED matrix"),
		noBuzzer:     fs.Bool("no-buzzer", false, "Disable the buzzer"),
	}
}

// loadConfig reads the config file and applies the flags that were set
// explicitly on the command line.
func loadConfig(path string, fs *flag.FlagSet, v *flagValues) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "capacity":
			cfg.Capacity = *v.capacity
		case "queue-depth":
			cfg.QueueDepth = *v.queueDepth
		case "debounce":
			cfg.Debounce = *v.debounce
		case "status-period":
			cfg.StatusPeriod = *v.statusPeriod
		case "heartbeat":
			cfg.Heartbeat = *v.heartbeat
		case "chip":
			cfg.Chip = *v.chip
		case "pin-entry":
			cfg.Pins.Entry = *v.pinEntry
		case "pin-exit":
			cfg.Pins.Exit = *v.pinExit
		case "pin-reset":
			cfg.Pins.Reset = *v.pinReset
		case "pin-buzzer":
			cfg.Pins.Buzzer = *v.pinBuzzer
		case "no-display":
			cfg.Display.Enabled = !*v.noDisplay
		case "no-matrix":
			cfg.Matrix.Enabled = !*v.noMatrix
		case "no-buzzer":
			cfg.Buzzer.Enabled = !*v.noBuzzer
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(cfg config.Config, printState bool) error {
	// Print state mode
	if printState {
		buttons, err := gpio.NewRealButtons(cfg.Chip, cfg.ButtonPins(), func(logic.Control, time.Time) {})
		if err != nil {
			return fmt.Errorf("init buttons: %w", err)
		}
		defer buttons.Close()

		line, err := stateLine(buttons)
		if err != nil {
			return err
		}
		fmt.Println(line)
		return nil
	}

	surfaces, closers := openSurfaces(cfg)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Printf("close: %v", err)
			}
		}
	}()

	manager, err := occupancy.New(cfg.Capacity)
	if err != nil {
		return err
	}
	ch := events.NewChannel(cfg.QueueDepth)
	fb := feedback.NewDispatcher(surfaces, cfg.Capacity)

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Capacity:       cfg.Capacity,
		QueueDepth:     cfg.QueueDepth,
		DebounceMs:     cfg.Debounce.Milliseconds(),
		StatusPeriodMs: cfg.StatusPeriod.Milliseconds(),
		HeartbeatMs:    cfg.Heartbeat.Milliseconds(),
	})

	p := panel.New(panel.Deps{
		Manager:  manager,
		Events:   ch,
		Feedback: fb,
		Tracker:  tracker,
	}, cfg.Debounce, panel.WithHeartbeat(cfg.Heartbeat))

	buttons, err := gpio.NewRealButtons(cfg.Chip, cfg.ButtonPins(), p.OnEdge)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	log.Printf("started: capacity=%d queue=%d debounce=%v status=%v heartbeat=%v",
		cfg.Capacity, cfg.QueueDepth, cfg.Debounce, cfg.StatusPeriod, cfg.Heartbeat)

	ticker := time.NewTicker(cfg.StatusPeriod)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)

	return runLoop(p, fb, tracker, ticker.C, sigCh)
}

// openSurfaces opens each enabled output device. A device that fails to open
// is logged and left out; the panel still counts without it.
func openSurfaces(cfg config.Config) (feedback.Surfaces, []io.Closer) {
	var s feedback.Surfaces
	var closers []io.Closer

	if led, err := gpio.NewRGBIndicator(cfg.Chip, cfg.LEDPins()); err != nil {
		log.Printf("indicator: disabled: %v", err)
	} else {
		s.Indicator = led
		closers = append(closers, led)
	}

	if cfg.Display.Enabled {
		if d, err := gpio.OpenDisplay(cfg.Display.Bus); err != nil {
			log.Printf("display: disabled: %v", err)
		} else {
			s.Display = d
			closers = append(closers, d)
		}
	}

	if cfg.Matrix.Enabled {
		if m, err := gpio.OpenMatrix(cfg.Matrix.Port); err != nil {
			log.Printf("matrix: disabled: %v", err)
		} else {
			s.Matrix = m
			closers = append(closers, m)
		}
	}

	if cfg.Buzzer.Enabled {
		if b, err := gpio.OpenBuzzer(cfg.Pins.Buzzer, cfg.Buzzer.FrequencyHz); err != nil {
			log.Printf("buzzer: disabled: %v", err)
		} else {
			s.Buzzer = b
		}
	}

	return s, closers
}

// runLoop runs the panel until a shutdown signal arrives or a task fails.
// SIGUSR1 logs the full status snapshot and keeps running.
func runLoop(p *panel.Panel, fb *feedback.Dispatcher, tracker *status.Tracker, tick <-chan time.Time, sig <-chan os.Signal) error {
	log.Printf("startup: %s", status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, tick) }()

	for {
		select {
		case s := <-sig:
			if s == syscall.SIGUSR1 {
				log.Printf("status:\n%s", status.FormatJSON(tracker.Snapshot()))
				continue
			}
			log.Printf("received %v, shutting down", s)
			cancel()
			err := <-done
			log.Printf("shutdown: %s", status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName(s)))
			fb.Blank()
			return err

		case err := <-done:
			fb.Blank()
			if err != nil {
				return fmt.Errorf("panel: %w", err)
			}
			return nil
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// stateLine formats the current button levels for -print-state.
func stateLine(b gpio.Buttons) (string, error) {
	var parts []string
	for _, c := range []logic.Control{logic.ControlEntry, logic.ControlExit, logic.ControlReset} {
		down, err := b.Pressed(c)
		if err != nil {
			return "", fmt.Errorf("read gpio: %w", err)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", c, stateString(down)))
	}
	return strings.Join(parts, ", "), nil
}

func stateString(down bool) string {
	if down {
		return "PRESSED"
	}
	return "RELEASED"
}
