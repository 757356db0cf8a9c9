// Package config holds the access panel configuration.
// Values come from Default, optionally overlaid by a YAML file, and finally
// by command-line flags set in main.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/access-panel/internal/events"
	"github.com/sweeney/access-panel/internal/gpio"
	"github.com/sweeney/access-panel/internal/logic"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Pins are BCM line offsets on the GPIO chip.
type Pins struct {
	Entry    int `yaml:"entry"`
	Exit     int `yaml:"exit"`
	Reset    int `yaml:"reset"`
	LEDRed   int `yaml:"led_red"`
	LEDGreen int `yaml:"led_green"`
	LEDBlue  int `yaml:"led_blue"`
	Buzzer   int `yaml:"buzzer"`
}

// Display configures the SSD1306 status display.
type Display struct {
	Enabled bool   `yaml:"enabled"`
	Bus     string `yaml:"bus"` // I2C bus name, "" for the first one
}

// Matrix configures the 5x5 WS2812B LED matrix.
type Matrix struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"` // SPI port name, "" for the first one
}

// Buzzer configures the PWM buzzer.
type Buzzer struct {
	Enabled     bool `yaml:"enabled"`
	FrequencyHz int  `yaml:"frequency_hz"`
}

// Config is the full panel configuration.
type Config struct {
	Capacity     int           `yaml:"capacity"`
	QueueDepth   int           `yaml:"queue_depth"`
	Debounce     time.Duration `yaml:"debounce"`
	StatusPeriod time.Duration `yaml:"status_period"`
	Heartbeat    time.Duration `yaml:"heartbeat"`
	Chip         string        `yaml:"chip"`
	Pins         Pins          `yaml:"pins"`
	Display      Display       `yaml:"display"`
	Matrix       Matrix        `yaml:"matrix"`
	Buzzer       Buzzer        `yaml:"buzzer"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Capacity:     logic.MaxCapacity,
		QueueDepth:   events.MinDepth,
		Debounce:     logic.DebounceThreshold,
		StatusPeriod: time.Second,
		Heartbeat:    15 * time.Minute,
		Chip:         "gpiochip0",
		Pins: Pins{
			Entry:    gpio.PinEntry,
			Exit:     gpio.PinExit,
			Reset:    gpio.PinReset,
			LEDRed:   gpio.PinLEDRed,
			LEDGreen: gpio.PinLEDGreen,
			LEDBlue:  gpio.PinLEDBlue,
			Buzzer:   gpio.PinBuzzer,
		},
		Display: Display{Enabled: true},
		Matrix:  Matrix{Enabled: true},
		Buzzer:  Buzzer{Enabled: true, FrequencyHz: gpio.DefaultToneHz},
	}
}

// Load reads a YAML file over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and pin assignments.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1, got %d", ErrInvalid, c.Capacity)
	}
	if c.QueueDepth < events.MinDepth {
		return fmt.Errorf("%w: queue_depth must be at least %d, got %d", ErrInvalid, events.MinDepth, c.QueueDepth)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalid)
	}
	if c.StatusPeriod <= 0 {
		return fmt.Errorf("%w: status_period must be positive", ErrInvalid)
	}
	if c.Heartbeat < 0 {
		return fmt.Errorf("%w: heartbeat must not be negative", ErrInvalid)
	}
	if c.Buzzer.Enabled && c.Buzzer.FrequencyHz <= 0 {
		return fmt.Errorf("%w: buzzer frequency must be positive", ErrInvalid)
	}

	seen := make(map[int]string)
	for _, p := range []struct {
		name string
		pin  int
	}{
		{"entry", c.Pins.Entry},
		{"exit", c.Pins.Exit},
		{"reset", c.Pins.Reset},
		{"led_red", c.Pins.LEDRed},
		{"led_green", c.Pins.LEDGreen},
		{"led_blue", c.Pins.LEDBlue},
		{"buzzer", c.Pins.Buzzer},
	} {
		if p.pin < 0 {
			return fmt.Errorf("%w: pin %s must not be negative", ErrInvalid, p.name)
		}
		if other, dup := seen[p.pin]; dup {
			return fmt.Errorf("%w: pins %s and %s both use line %d", ErrInvalid, other, p.name, p.pin)
		}
		seen[p.pin] = p.name
	}
	return nil
}

// ButtonPins returns the button line offsets.
func (c Config) ButtonPins() gpio.ButtonPins {
	return gpio.ButtonPins{Entry: c.Pins.Entry, Exit: c.Pins.Exit, Reset: c.Pins.Reset}
}

// LEDPins returns the indicator line offsets.
func (c Config) LEDPins() gpio.LEDPins {
	return gpio.LEDPins{Red: c.Pins.LEDRed, Green: c.Pins.LEDGreen, Blue: c.Pins.LEDBlue}
}
