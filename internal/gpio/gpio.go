// Package gpio adapts the panel hardware to the rest of the program.
// Buttons and the RGB indicator use the Linux GPIO character device;
// the buzzer, display and LED matrix go through periph.io.
// Fakes allow testing without hardware.
package gpio

import (
	"time"

	"github.com/sweeney/access-panel/internal/logic"
)

// EdgeHandler receives one call per falling edge on a button line.
// It runs on the driver's event goroutine and must not block.
type EdgeHandler func(c logic.Control, at time.Time)

// Buttons is the set of requested button lines.
type Buttons interface {
	// Pressed reports whether the control's line is currently held low.
	Pressed(c logic.Control) (bool, error)

	// Close releases the lines.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	PinEntry    = 5
	PinExit     = 6
	PinReset    = 22
	PinLEDRed   = 23
	PinLEDGreen = 24
	PinLEDBlue  = 25
	PinBuzzer   = 18
)

// ButtonPins maps each control to a line offset.
type ButtonPins struct {
	Entry int
	Exit  int
	Reset int
}

// Offset returns the line offset for c.
func (p ButtonPins) Offset(c logic.Control) int {
	switch c {
	case logic.ControlEntry:
		return p.Entry
	case logic.ControlExit:
		return p.Exit
	default:
		return p.Reset
	}
}

// Control returns the control wired to offset.
func (p ButtonPins) Control(offset int) (logic.Control, bool) {
	switch offset {
	case p.Entry:
		return logic.ControlEntry, true
	case p.Exit:
		return logic.ControlExit, true
	case p.Reset:
		return logic.ControlReset, true
	}
	return 0, false
}

// LEDPins are the red, green and blue lines of the indicator.
type LEDPins struct {
	Red   int
	Green int
	Blue  int
}

// levels converts a colour to line values. Any non-zero channel drives its
// line high; the indicator has no PWM.
func levels(c logic.Color) []int {
	on := func(v uint8) int {
		if v > 0 {
			return 1
		}
		return 0
	}
	return []int{on(c.R), on(c.G), on(c.B)}
}
