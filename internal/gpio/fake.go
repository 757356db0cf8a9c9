package gpio

import (
	"errors"
	"sync"
	"time"

	"github.com/sweeney/access-panel/internal/logic"
)

// ErrClosed is returned by FakeButtons after Close.
var ErrClosed = errors.New("gpio: buttons closed")

// FakeButtons is a test double that delivers scripted edges to a handler.
type FakeButtons struct {
	mu      sync.Mutex
	handler EdgeHandler
	held    map[logic.Control]bool
	closed  bool

	// Now supplies edge timestamps when Press is used. Defaults to time.Now.
	Now func() time.Time
}

// NewFakeButtons creates FakeButtons that call h for each edge.
func NewFakeButtons(h EdgeHandler) *FakeButtons {
	return &FakeButtons{
		handler: h,
		held:    make(map[logic.Control]bool),
		Now:     time.Now,
	}
}

// Press delivers one falling edge for c stamped with Now.
func (f *FakeButtons) Press(c logic.Control) {
	f.Edge(c, f.Now())
}

// Edge delivers one falling edge for c at the given time.
// Edges after Close are ignored, as a released line stops reporting.
func (f *FakeButtons) Edge(c logic.Control, at time.Time) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return
	}
	f.handler(c, at)
}

// Bounce delivers n edges for c spaced gap apart, starting at start.
func (f *FakeButtons) Bounce(c logic.Control, start time.Time, n int, gap time.Duration) {
	for i := 0; i < n; i++ {
		f.Edge(c, start.Add(time.Duration(i)*gap))
	}
}

// Hold sets the level reported by Pressed.
func (f *FakeButtons) Hold(c logic.Control, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held[c] = down
}

// Pressed returns the level set by Hold.
func (f *FakeButtons) Pressed(c logic.Control) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false, ErrClosed
	}
	return f.held[c], nil
}

// Close marks the buttons as closed.
func (f *FakeButtons) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakeButtons) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
