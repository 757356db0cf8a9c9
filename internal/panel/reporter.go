package panel

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/access-panel/internal/logic"
	"github.com/sweeney/access-panel/internal/status"
)

// RunStatus redraws the ambient status on every tick until ctx is done.
func (p *Panel) RunStatus(ctx context.Context, tick <-chan time.Time) error {
	start := p.now()
	lastHeartbeat := start
	var lastDropped uint64

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			n := p.manager.Count()
			p.feedback.RenderStatus(MsgIdle, n)
			p.feedback.SetOccupancyIndicator(n)
			p.feedback.ShowOccupancyGrid(n)
			p.tracker.Update(n)

			if dropped := p.events.Dropped(); dropped != lastDropped {
				log.Printf("events: %d presses dropped, channel full", dropped-lastDropped)
				lastDropped = dropped
				p.tracker.SetDropped(int(dropped))
			}

			now := p.now()
			if hb := logic.CheckHeartbeat(now, start, lastHeartbeat, p.heartbeat); hb != nil {
				lastHeartbeat = now
				log.Printf("heartbeat: %s", status.FormatStatusEvent(p.tracker.Snapshot(), "HEARTBEAT", ""))
			}
		}
	}
}
