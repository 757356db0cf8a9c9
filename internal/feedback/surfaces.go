// Package feedback drives the panel's output peripherals: the status display,
// the RGB occupancy indicator, the LED matrix and the buzzer.
// The real devices live in internal/gpio; fakes for tests live here.
package feedback

import "github.com/sweeney/access-panel/internal/logic"

// Display is a text display with an off-screen buffer.
type Display interface {
	// Clear blanks the buffer.
	Clear()
	// DrawText draws msg with its baseline-left corner at (x, y).
	DrawText(msg string, x, y int)
	// Present pushes the buffer to the panel.
	Present() error
}

// Matrix is an addressable LED strip laid out as a 5x5 grid.
type Matrix interface {
	Clear()
	SetPixel(index int, c logic.Color)
	Flush() error
}

// Indicator is a single RGB status LED.
type Indicator interface {
	SetColor(c logic.Color) error
}

// Buzzer is a tone generator that is either sounding or silent.
type Buzzer interface {
	ToneOn() error
	ToneOff() error
}

// Surfaces groups the devices a Dispatcher writes to.
// A nil field is replaced by a device that ignores writes.
type Surfaces struct {
	Display   Display
	Matrix    Matrix
	Indicator Indicator
	Buzzer    Buzzer
}

type nopDisplay struct{}

func (nopDisplay) Clear() {}
func (nopDisplay) DrawText(string, int, int) {}
func (nopDisplay) Present() error { return nil }

type nopMatrix struct{}

func (nopMatrix) Clear() {}
func (nopMatrix) SetPixel(int, logic.Color) {}
func (nopMatrix) Flush() error { return nil }

type nopIndicator struct{}

func (nopIndicator) SetColor(logic.Color) error { return nil }

type nopBuzzer struct{}

func (nopBuzzer) ToneOn() error { return nil }
func (nopBuzzer) ToneOff() error { return nil }
