// Package events hands validated button presses from edge-handler context to
// the entry and exit tasks.
package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sweeney/access-panel/internal/logic"
)

// MinDepth is the smallest queue depth a Channel is created with.
const MinDepth = 10

// Channel is a bounded FIFO of events with a lock-free producer side.
//
// Producers (edge handlers) reserve a slot with an atomic counter and then
// perform a non-blocking send on a buffered Go channel. Consumers pull those
// sends into a deque under mu, so an event handed back to the front is always
// seen before anything newer. The counter covers both sides of the handoff:
// at most depth events are pending in total.
type Channel struct {
	depth   int64
	pending atomic.Int64 // reserved by TrySend, released when consumed or flushed

	in     chan logic.Event
	notify chan struct{} // single-slot "something was sent" hint

	mu      sync.Mutex
	queue   *ring
	changed chan struct{} // closed and replaced whenever queue changes

	dropped  atomic.Uint64
	requeued atomic.Uint64
}

// NewChannel creates a Channel holding up to depth pending events.
// Depths below MinDepth are raised to MinDepth.
func NewChannel(depth int) *Channel {
	if depth < MinDepth {
		depth = MinDepth
	}
	return &Channel{
		depth:   int64(depth),
		in:      make(chan logic.Event, depth),
		notify:  make(chan struct{}, 1),
		queue:   newRing(depth),
		changed: make(chan struct{}),
	}
}

// Depth returns the number of events the channel holds when full.
func (c *Channel) Depth() int {
	return int(c.depth)
}

// TrySend delivers ev without blocking or locking. It is safe to call from
// edge-handler context. When depth events are already pending the event is
// dropped and false is returned.
func (c *Channel) TrySend(ev logic.Event) bool {
	if !c.reserve() {
		c.dropped.Add(1)
		return false
	}
	select {
	case c.in <- ev:
	default:
		c.pending.Add(-1)
		c.dropped.Add(1)
		return false
	}
	select {
	case c.notify <- struct{}{}:
	default:
	}
	return true
}

// reserve claims one of the depth slots.
func (c *Channel) reserve() bool {
	for {
		n := c.pending.Load()
		if n >= c.depth {
			return false
		}
		if c.pending.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Receive blocks until an event of the given kind is at the head of the
// channel, removes it and returns it.
//
// A head event of another kind is taken and pushed back to the front
// unmodified, under the same lock, and the caller blocks again until the
// channel changes, so the consumer for that kind takes it on its next
// receive. Events of one kind are therefore delivered in arrival order.
func (c *Channel) Receive(ctx context.Context, kind logic.EventKind) (logic.Event, error) {
	for {
		c.mu.Lock()
		c.pullLocked()
		if ev, ok := c.queue.popFront(); ok {
			if ev.Kind == kind {
				c.pending.Add(-1)
				c.broadcastLocked()
				c.mu.Unlock()
				return ev, nil
			}
			c.queue.pushFront(ev)
			c.requeued.Add(1)
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-c.notify:
		case <-changed:
		case <-ctx.Done():
			return logic.Event{}, ctx.Err()
		}
	}
}

// Flush discards every pending event and returns how many were dropped.
// A concurrent TrySend is either discarded whole or kept whole.
func (c *Channel) Flush() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.queue.drainAll())
	for pending := len(c.in); pending > 0; pending-- {
		select {
		case <-c.in:
			n++
		default:
			pending = 0
		}
	}
	c.pending.Add(int64(-n))
	select {
	case <-c.notify:
	default:
	}
	c.broadcastLocked()
	return n
}

// Len returns the number of pending events, including sends in progress.
func (c *Channel) Len() int {
	return int(c.pending.Load())
}

// Dropped returns the number of events rejected by TrySend because the
// channel was full.
func (c *Channel) Dropped() uint64 {
	return c.dropped.Load()
}

// Requeued returns how many times a consumer took a head event that belonged
// to the other consumer and pushed it back.
func (c *Channel) Requeued() uint64 {
	return c.requeued.Load()
}

// pullLocked moves sent events into the deque, oldest first, while there is
// room. Caller must hold mu.
func (c *Channel) pullLocked() {
	moved := false
	for !c.queue.full() {
		select {
		case ev := <-c.in:
			c.queue.pushBack(ev)
			moved = true
			continue
		default:
		}
		break
	}
	if moved {
		c.broadcastLocked()
	}
}

func (c *Channel) broadcastLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}
