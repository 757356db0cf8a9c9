// Package panel runs the access panel's four tasks: entry, exit, reset and
// periodic status. A Panel is built once at startup and shared by all of
// them; it is the only owner of the reset signal and the debounce windows.
package panel

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sweeney/access-panel/internal/events"
	"github.com/sweeney/access-panel/internal/feedback"
	"github.com/sweeney/access-panel/internal/logic"
	"github.com/sweeney/access-panel/internal/occupancy"
	"github.com/sweeney/access-panel/internal/status"
)

// Messages shown on the display.
const (
	MsgIdle  = "Access control"
	MsgEntry = "Entry!"
	MsgExit  = "Exit!"
	MsgFull  = "Capacity reached!"
	MsgEmpty = "No occupants!"
	MsgReset = "System reset"
)

// Deps are the components a Panel coordinates.
type Deps struct {
	Manager  *occupancy.Manager
	Events   *events.Channel
	Feedback *feedback.Dispatcher
	Tracker  *status.Tracker
}

// Panel is the shared context of the panel tasks.
type Panel struct {
	manager   *occupancy.Manager
	events    *events.Channel
	feedback  *feedback.Dispatcher
	tracker   *status.Tracker
	debouncer *logic.Debouncer

	reset       chan struct{} // single slot: a raise while pending is dropped
	resetting   atomic.Bool   // from raise until the last pending reset is reconciled
	reconciling atomic.Bool

	heartbeat time.Duration
	now       func() time.Time
}

// Option configures a Panel.
type Option func(*Panel)

// WithHeartbeat sets the interval of heartbeat status log lines (0 disables).
func WithHeartbeat(d time.Duration) Option {
	return func(p *Panel) { p.heartbeat = d }
}

// WithClock replaces time.Now for heartbeat bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

// New creates a Panel that filters edges with the given debounce window.
func New(deps Deps, debounce time.Duration, opts ...Option) *Panel {
	p := &Panel{
		manager:   deps.Manager,
		events:    deps.Events,
		feedback:  deps.Feedback,
		tracker:   deps.Tracker,
		debouncer: logic.NewDebouncer(debounce),
		reset:     make(chan struct{}, 1),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HandleEdge is called for every falling edge on a control, from the GPIO
// event goroutine. It never blocks: entry and exit presses go to the event
// channel with a non-blocking send, a reset press raises the reset signal.
// It reports whether the edge produced a press that was delivered.
func (p *Panel) HandleEdge(c logic.Control, at time.Time) bool {
	if !p.debouncer.Accept(c, at) {
		return false
	}
	if c == logic.ControlReset {
		p.RaiseReset()
		return true
	}
	kind, ok := logic.KindFor(c)
	if !ok {
		return false
	}
	return p.events.TrySend(logic.Event{Kind: kind, Time: at})
}

// OnEdge is HandleEdge without the result, in the shape of a GPIO edge handler.
func (p *Panel) OnEdge(c logic.Control, at time.Time) {
	p.HandleEdge(c, at)
}

// RaiseReset requests a reset. It returns false when one is already pending.
func (p *Panel) RaiseReset() bool {
	p.resetting.Store(true)
	select {
	case p.reset <- struct{}{}:
		return true
	default:
		return false
	}
}

func (p *Panel) resetPending() bool {
	return len(p.reset) > 0
}

// resetInProgress reports whether a reset has been raised and not yet fully
// reconciled. Presses seen in that time are superseded by the reset.
func (p *Panel) resetInProgress() bool {
	return p.resetting.Load() || p.resetPending()
}

// Run starts the four tasks and blocks until ctx is done or one of them fails.
// tick drives the status reporter.
func (p *Panel) Run(ctx context.Context, tick <-chan time.Time) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.RunReset(ctx) })
	g.Go(func() error { return p.RunEntry(ctx) })
	g.Go(func() error { return p.RunExit(ctx) })
	g.Go(func() error { return p.RunStatus(ctx, tick) })
	err := g.Wait()
	log.Printf("panel: tasks stopped")
	return err
}
