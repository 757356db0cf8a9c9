package panel

import (
	"context"
	"log"

	"github.com/sweeney/access-panel/internal/feedback"
	"github.com/sweeney/access-panel/internal/status"
)

// ResetState is the state of the reset coordinator.
type ResetState int

const (
	ResetIdle ResetState = iota
	ResetReconciling
)

// String returns the state name.
func (s ResetState) String() string {
	if s == ResetReconciling {
		return "RECONCILING"
	}
	return "IDLE"
}

// ResetState reports whether a reset is being reconciled.
func (p *Panel) ResetState() ResetState {
	if p.reconciling.Load() {
		return ResetReconciling
	}
	return ResetIdle
}

// RunReset waits for reset signals and reconciles each one to completion
// before waiting again.
func (p *Panel) RunReset(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.reset:
			p.reconcile()
		}
	}
}

// reconcile discards pending presses, empties the room and announces it.
// The outcome is recorded only once the reset has fully finished.
func (p *Panel) reconcile() {
	p.resetting.Store(true)
	p.reconciling.Store(true)
	p.tracker.SetReconciling(true)

	flushed := p.events.Flush()
	n := p.manager.Reset()
	log.Printf("reset: occupancy cleared, %d pending presses discarded", flushed)

	p.feedback.RenderStatus(MsgReset, n)
	p.feedback.SetOccupancyIndicator(n)
	p.feedback.BeepDouble()
	p.feedback.Animate(feedback.AnimReset)

	// A reset raised meanwhile keeps presses suppressed until it runs.
	p.resetting.Store(p.resetPending())
	p.reconciling.Store(false)
	p.tracker.SetReconciling(false)
	p.tracker.Record(status.OutcomeReset, n, MsgReset)
}
