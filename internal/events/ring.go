package events

import "github.com/sweeney/access-panel/internal/logic"

// ring is a fixed-capacity double-ended queue of events.
// Not safe for concurrent use; the caller must synchronize.
type ring struct {
	buf      []logic.Event
	capacity int
	head     int // position of the oldest event
	count    int
}

func newRing(capacity int) *ring {
	return &ring{
		buf:      make([]logic.Event, capacity),
		capacity: capacity,
	}
}

// pushBack appends ev as the newest event. Returns false when full.
func (r *ring) pushBack(ev logic.Event) bool {
	if r.count == r.capacity {
		return false
	}
	r.buf[(r.head+r.count)%r.capacity] = ev
	r.count++
	return true
}

// pushFront inserts ev ahead of every queued event. Returns false when full.
func (r *ring) pushFront(ev logic.Event) bool {
	if r.count == r.capacity {
		return false
	}
	r.head = (r.head - 1 + r.capacity) % r.capacity
	r.buf[r.head] = ev
	r.count++
	return true
}

func (r *ring) peek() (logic.Event, bool) {
	if r.count == 0 {
		return logic.Event{}, false
	}
	return r.buf[r.head], true
}

func (r *ring) popFront() (logic.Event, bool) {
	ev, ok := r.peek()
	if !ok {
		return ev, false
	}
	r.buf[r.head] = logic.Event{}
	r.head = (r.head + 1) % r.capacity
	r.count--
	return ev, true
}

// drainAll removes and returns every queued event, oldest first.
func (r *ring) drainAll() []logic.Event {
	if r.count == 0 {
		return nil
	}

	result := make([]logic.Event, r.count)
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(r.head+i)%r.capacity]
	}

	clear(r.buf)
	r.count = 0
	r.head = 0
	return result
}

func (r *ring) len() int {
	return r.count
}

func (r *ring) full() bool {
	return r.count == r.capacity
}
