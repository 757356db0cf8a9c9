package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultToneHz is the buzzer pitch.
const DefaultToneHz = 1000

// TonePin is the part of a periph output pin the buzzer uses.
type TonePin interface {
	Out(l gpio.Level) error
	PWM(duty gpio.Duty, f physic.Frequency) error
}

// Buzzer drives a passive buzzer with a square wave.
type Buzzer struct {
	pin  TonePin
	freq physic.Frequency
}

// NewBuzzer wraps pin, sounding at hz when on.
func NewBuzzer(pin TonePin, hz int) *Buzzer {
	if hz <= 0 {
		hz = DefaultToneHz
	}
	return &Buzzer{pin: pin, freq: physic.Frequency(hz) * physic.Hertz}
}

// OpenBuzzer looks up the BCM pin through periph and returns a silent buzzer.
func OpenBuzzer(bcm, hz int) (*Buzzer, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	name := fmt.Sprintf("GPIO%d", bcm)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("buzzer pin %s not found", name)
	}
	b := NewBuzzer(p, hz)
	if err := b.ToneOff(); err != nil {
		return nil, err
	}
	return b, nil
}

// ToneOn implements feedback.Buzzer.
func (b *Buzzer) ToneOn() error {
	if err := b.pin.PWM(gpio.DutyHalf, b.freq); err != nil {
		return fmt.Errorf("buzzer on: %w", err)
	}
	return nil
}

// ToneOff implements feedback.Buzzer.
func (b *Buzzer) ToneOff() error {
	if err := b.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("buzzer off: %w", err)
	}
	return nil
}
