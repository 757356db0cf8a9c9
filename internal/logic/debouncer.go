package logic

import (
	"sync/atomic"
	"time"
)

// Debouncer filters switch bounce on each control independently.
//
// Accept is called from edge-handler context. It never blocks or locks; each
// control keeps its last accepted timestamp in its own atomic word.
type Debouncer struct {
	threshold time.Duration
	last      [numControls]atomic.Int64 // unix nanos, 0 = never accepted
}

// NewDebouncer creates a debouncer with the given threshold.
// A threshold <= 0 accepts every edge.
func NewDebouncer(threshold time.Duration) *Debouncer {
	return &Debouncer{threshold: threshold}
}

// Accept reports whether an edge on control c at time now is a new press.
// An edge is accepted when at least the threshold has elapsed since the
// last accepted edge on the same control; the first edge is always accepted.
// Rejected edges leave the window untouched.
func (d *Debouncer) Accept(c Control, now time.Time) bool {
	if c < 0 || c >= numControls {
		return false
	}
	w := &d.last[c]
	nanos := now.UnixNano()
	for {
		prev := w.Load()
		if prev != 0 && d.threshold > 0 && time.Duration(nanos-prev) < d.threshold {
			return false
		}
		if w.CompareAndSwap(prev, nanos) {
			return true
		}
	}
}

// CheckHeartbeat returns heartbeat data if interval has elapsed since last.
// Returns nil if interval is <= 0 (disabled) or has not elapsed yet.
func CheckHeartbeat(now, start, last time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(last) < interval {
		return nil
	}
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(start),
	}
}
