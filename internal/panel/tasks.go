package panel

import (
	"context"
	"errors"
	"log"

	"github.com/sweeney/access-panel/internal/feedback"
	"github.com/sweeney/access-panel/internal/logic"
	"github.com/sweeney/access-panel/internal/occupancy"
	"github.com/sweeney/access-panel/internal/status"
)

// RunEntry handles entry presses until ctx is done.
func (p *Panel) RunEntry(ctx context.Context) error {
	return p.consume(ctx, logic.EventEntry, p.handleEntry)
}

// RunExit handles exit presses until ctx is done.
func (p *Panel) RunExit(ctx context.Context) error {
	return p.consume(ctx, logic.EventExit, p.handleExit)
}

func (p *Panel) consume(ctx context.Context, kind logic.EventKind, handle func(logic.Event)) error {
	for {
		ev, err := p.events.Receive(ctx, kind)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		// A reset supersedes presses that are already in hand.
		if p.resetInProgress() {
			log.Printf("%s: press discarded, reset in progress", kindName(kind))
			continue
		}
		handle(ev)
	}
}

func (p *Panel) handleEntry(logic.Event) {
	n, err := p.manager.TryAdmit()
	if errors.Is(err, occupancy.ErrCapacityExceeded) {
		log.Printf("entry: rejected, capacity reached (count=%d)", n)
		p.feedback.RenderStatus(MsgFull, n)
		p.feedback.BeepShort()
		p.feedback.Animate(feedback.AnimFull)
		p.tracker.Record(status.OutcomeRejected, n, MsgFull)
		return
	}

	log.Printf("entry: admitted (count=%d)", n)
	p.feedback.RenderStatus(MsgEntry, n)
	p.feedback.SetOccupancyIndicator(n)
	p.feedback.Animate(feedback.AnimEntry)
	p.tracker.Record(status.OutcomeAdmitted, n, MsgEntry)
}

func (p *Panel) handleExit(logic.Event) {
	n, err := p.manager.Release()
	if errors.Is(err, occupancy.ErrEmptyRelease) {
		log.Printf("exit: ignored, nobody inside")
		p.feedback.RenderStatus(MsgEmpty, n)
		p.feedback.BeepShort()
		p.tracker.Record(status.OutcomeEmptyRelease, n, MsgEmpty)
		return
	}

	log.Printf("exit: released (count=%d)", n)
	p.feedback.RenderStatus(MsgExit, n)
	p.feedback.SetOccupancyIndicator(n)
	p.feedback.Animate(feedback.AnimExit)
	p.tracker.Record(status.OutcomeReleased, n, MsgExit)
}

func kindName(k logic.EventKind) string {
	if k == logic.EventEntry {
		return "entry"
	}
	return "exit"
}
