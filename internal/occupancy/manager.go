// Package occupancy owns the authoritative occupant count of the room.
//
// The count and the pool of admission tokens (free slots) form one composite
// state guarded by a single mutex, so no observer can ever see a token pool
// that disagrees with the count.
package occupancy

import (
	"errors"
	"fmt"
	"sync"
)

// Errors returned by Manager operations. Neither is fatal.
var (
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrEmptyRelease     = errors.New("no occupants to release")
)

// State is a point-in-time copy of the manager's state.
type State struct {
	Count  int
	Tokens int
	Max    int
}

// Manager tracks occupants against a fixed capacity.
type Manager struct {
	mu     sync.Mutex
	max    int
	count  int
	tokens int
}

// New creates a Manager for max occupants, empty and with every token free.
func New(max int) (*Manager, error) {
	if max < 1 {
		return nil, fmt.Errorf("occupancy: invalid capacity %d", max)
	}
	return &Manager{max: max, tokens: max}, nil
}

// Max returns the capacity.
func (m *Manager) Max() int {
	return m.max
}

// TryAdmit admits one occupant if a slot is free.
// On success it returns the new count. Otherwise it returns the unchanged
// count and ErrCapacityExceeded.
func (m *Manager) TryAdmit() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens == 0 {
		return m.count, ErrCapacityExceeded
	}
	m.tokens--
	if m.count >= m.max {
		// Token taken but the room is full: put it back.
		m.tokens++
		return m.count, ErrCapacityExceeded
	}
	m.count++
	return m.count, nil
}

// Release records one occupant leaving and returns the new count.
// With nobody inside it returns 0 and ErrEmptyRelease; a stray exit press
// is expected and changes nothing.
func (m *Manager) Release() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.count == 0 {
		return 0, ErrEmptyRelease
	}
	m.count--
	m.tokens++
	return m.count, nil
}

// Reset empties the room and refills the token pool, regardless of the
// previous state. It returns the new count, always 0.
func (m *Manager) Reset() int {
	m.mu.Lock()
	m.count = 0
	m.tokens = m.max
	m.mu.Unlock()
	return 0
}

// Count returns the current number of occupants.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Snapshot returns count, free tokens and capacity read together.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Count: m.count, Tokens: m.tokens, Max: m.max}
}
