package blocks

import (
	"context"
	"sync"
	"time"

	"goblocks/config"
	"goblocks/protocol"
)

// ClockBlock shows the current date and time. A click toggles between the
// time and date formats.
type ClockBlock struct {
	PollingBlock

	formatTime string
	formatDate string

	mu       sync.Mutex
	showDate bool
}

func NewClock(cfg config.ClockModule) *ClockBlock {
	c := &ClockBlock{
		formatTime: cfg.FormatTime,
		formatDate: cfg.FormatDate,
	}
	c.PollingBlock = PollingBlock{
		Base:     NewBase("clock", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     c.poll,
	}
	return c
}

func (c *ClockBlock) poll(context.Context) error {
	c.mu.Lock()
	format := c.formatTime
	if c.showDate {
		format = c.formatDate
	}
	c.mu.Unlock()
	c.Update(protocol.State{FullText: time.Now().Format(format)})
	return nil
}

func (c *ClockBlock) Click(ctx context.Context, _ protocol.Click) error {
	c.mu.Lock()
	c.showDate = !c.showDate
	c.mu.Unlock()
	return c.poll(ctx)
}
