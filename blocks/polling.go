package blocks

import (
	"context"
	"os"
	"time"

	"goblocks/protocol"
)

// PollingBlock is the most common variant: call Poll, sleep Interval,
// repeat. Click and signal events re-run Poll synchronously so the user
// never waits a full interval for feedback.
type PollingBlock struct {
	Base

	// Interval between Poll calls.
	Interval time.Duration

	// Poll produces one state update. An error returned here is
	// unrecoverable: Run propagates it and the runner freezes the block.
	Poll func(ctx context.Context) error
}

// Run polls immediately, then once per Interval, until the context is
// cancelled, the block is frozen, or Poll fails.
func (p *PollingBlock) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		if p.Frozen() {
			return nil
		}
		if err := p.Poll(ctx); err != nil {
			return err
		}
		timer.Reset(p.Interval)
	}
}

func (p *PollingBlock) Click(ctx context.Context, _ protocol.Click) error {
	return p.Poll(ctx)
}

func (p *PollingBlock) Signal(ctx context.Context, _ os.Signal) error {
	return p.Poll(ctx)
}
