// Package status provides a thread-safe status tracker for the access panel.
// It is read by the status reporter for heartbeat and shutdown log lines.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/access-panel/internal/logic"
)

// Config contains panel configuration for display.
type Config struct {
	Capacity       int
	QueueDepth     int
	DebounceMs     int64
	StatusPeriodMs int64
	HeartbeatMs    int64
}

// Outcome is the result of handling one press or reset.
type Outcome int

const (
	OutcomeAdmitted Outcome = iota
	OutcomeRejected
	OutcomeReleased
	OutcomeEmptyRelease
	OutcomeReset
)

// Snapshot is a point-in-time view of panel state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Count       int
	Band        logic.Band
	Counts      logic.Counts
	LastMessage string
	Reconciling bool
	StartTime   time.Time
	Now         time.Time
	Config      Config
}

// Uptime returns the duration since the panel started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable panel state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the current count and its band.
func (t *Tracker) Update(count int) {
	t.mu.Lock()
	t.snap.Count = count
	t.snap.Band = logic.BandFor(count, t.snap.Config.Capacity)
	t.mu.Unlock()
}

// Record counts one outcome and stores the count and message that went with it.
func (t *Tracker) Record(o Outcome, count int, msg string) {
	t.mu.Lock()
	switch o {
	case OutcomeAdmitted:
		t.snap.Counts.Admitted++
	case OutcomeRejected:
		t.snap.Counts.Rejected++
	case OutcomeReleased:
		t.snap.Counts.Released++
	case OutcomeEmptyRelease:
		t.snap.Counts.EmptyReleases++
	case OutcomeReset:
		t.snap.Counts.Resets++
	}
	t.snap.Count = count
	t.snap.Band = logic.BandFor(count, t.snap.Config.Capacity)
	t.snap.LastMessage = msg
	t.mu.Unlock()
}

// SetDropped sets the number of presses dropped because the event channel was full.
func (t *Tracker) SetDropped(n int) {
	t.mu.Lock()
	t.snap.Counts.Dropped = n
	t.mu.Unlock()
}

// SetReconciling marks whether a reset is in progress.
func (t *Tracker) SetReconciling(on bool) {
	t.mu.Lock()
	t.snap.Reconciling = on
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the panel state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
