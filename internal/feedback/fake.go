package feedback

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/access-panel/internal/logic"
)

// FakeDisplay records presented frames for test assertions.
// It also counts overlapping writers: a frame starts at Clear and ends at
// Present, and two frames in progress at once is a serialization bug.
type FakeDisplay struct {
	// Delay, if set, is slept inside DrawText to widen race windows.
	Delay time.Duration

	// PresentError, if set, will be returned by Present.
	PresentError error

	mu       sync.Mutex
	lines    []string
	frames   [][]string
	active   atomic.Int32
	overlaps atomic.Int32
}

// NewFakeDisplay creates a FakeDisplay.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{}
}

// Clear starts a new frame.
func (f *FakeDisplay) Clear() {
	if f.active.Add(1) > 1 {
		f.overlaps.Add(1)
	}
	f.mu.Lock()
	f.lines = nil
	f.mu.Unlock()
}

// DrawText appends msg to the current frame.
func (f *FakeDisplay) DrawText(msg string, x, y int) {
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	f.mu.Lock()
	f.lines = append(f.lines, msg)
	f.mu.Unlock()
}

// Present records the current frame.
func (f *FakeDisplay) Present() error {
	defer f.active.Add(-1)
	if f.PresentError != nil {
		return f.PresentError
	}
	f.mu.Lock()
	f.frames = append(f.frames, append([]string(nil), f.lines...))
	f.mu.Unlock()
	return nil
}

// Frames returns every presented frame.
func (f *FakeDisplay) Frames() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.frames...)
}

// Last returns the most recently presented frame, or nil.
func (f *FakeDisplay) Last() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

// Overlaps returns how many frames started while another was in progress.
func (f *FakeDisplay) Overlaps() int {
	return int(f.overlaps.Load())
}

// FakeMatrix records flushed pixel buffers.
type FakeMatrix struct {
	mu       sync.Mutex
	pixels   [MatrixPixels]logic.Color
	flushed  [][MatrixPixels]logic.Color
	active   atomic.Int32
	overlaps atomic.Int32
}

// NewFakeMatrix creates a FakeMatrix.
func NewFakeMatrix() *FakeMatrix {
	return &FakeMatrix{}
}

// Clear starts a new buffer.
func (f *FakeMatrix) Clear() {
	if f.active.Add(1) > 1 {
		f.overlaps.Add(1)
	}
	f.mu.Lock()
	f.pixels = [MatrixPixels]logic.Color{}
	f.mu.Unlock()
}

// SetPixel sets one pixel of the buffer. Out-of-range indexes are ignored.
func (f *FakeMatrix) SetPixel(index int, c logic.Color) {
	if index < 0 || index >= MatrixPixels {
		return
	}
	f.mu.Lock()
	f.pixels[index] = c
	f.mu.Unlock()
}

// Flush records the buffer.
func (f *FakeMatrix) Flush() error {
	defer f.active.Add(-1)
	f.mu.Lock()
	f.flushed = append(f.flushed, f.pixels)
	f.mu.Unlock()
	return nil
}

// Flushed returns every flushed buffer.
func (f *FakeMatrix) Flushed() [][MatrixPixels]logic.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][MatrixPixels]logic.Color(nil), f.flushed...)
}

// Lit returns the number of non-off pixels in the last flushed buffer.
func (f *FakeMatrix) Lit() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.flushed) == 0 {
		return 0
	}
	n := 0
	for _, c := range f.flushed[len(f.flushed)-1] {
		if c != logic.Off {
			n++
		}
	}
	return n
}

// Overlaps returns how many buffers started while another was in progress.
func (f *FakeMatrix) Overlaps() int {
	return int(f.overlaps.Load())
}

// FakeIndicator records indicator colors.
type FakeIndicator struct {
	mu     sync.Mutex
	colors []logic.Color
}

// NewFakeIndicator creates a FakeIndicator.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// SetColor records c.
func (f *FakeIndicator) SetColor(c logic.Color) error {
	f.mu.Lock()
	f.colors = append(f.colors, c)
	f.mu.Unlock()
	return nil
}

// Colors returns every color set so far.
func (f *FakeIndicator) Colors() []logic.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]logic.Color(nil), f.colors...)
}

// Last returns the most recent color, or Off.
func (f *FakeIndicator) Last() logic.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.colors) == 0 {
		return logic.Off
	}
	return f.colors[len(f.colors)-1]
}

// FakeBuzzer counts tone switches.
type FakeBuzzer struct {
	// Broken, if set, makes ToneOn fail.
	Broken bool

	ons  atomic.Int32
	offs atomic.Int32
}

// NewFakeBuzzer creates a FakeBuzzer.
func NewFakeBuzzer() *FakeBuzzer {
	return &FakeBuzzer{}
}

// ToneOn counts a tone start.
func (f *FakeBuzzer) ToneOn() error {
	if f.Broken {
		return errors.New("buzzer broken")
	}
	f.ons.Add(1)
	return nil
}

// ToneOff counts a tone stop.
func (f *FakeBuzzer) ToneOff() error {
	f.offs.Add(1)
	return nil
}

// Beeps returns how many tones were started.
func (f *FakeBuzzer) Beeps() int {
	return int(f.ons.Load())
}

// Offs returns how many times the tone was stopped.
func (f *FakeBuzzer) Offs() int {
	return int(f.offs.Load())
}
