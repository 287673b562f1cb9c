package blocks

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"goblocks/config"
	"goblocks/protocol"
	"goblocks/theme"
)

// LoadBlock shows the 1/5/15 minute load averages from /proc/loadavg. The
// one-minute figure colors against the CPU count: warn at 1x, danger at 2x.
type LoadBlock struct {
	PollingBlock

	prefix string
	ncpu   float64
}

func NewLoad(cfg config.LoadModule) *LoadBlock {
	l := &LoadBlock{
		prefix: cfg.Prefix,
		ncpu:   float64(runtime.NumCPU()),
	}
	l.PollingBlock = PollingBlock{
		Base:     NewBase("load", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     l.poll,
	}
	return l
}

func (l *LoadBlock) poll(context.Context) error {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return fmt.Errorf("read loadavg: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return fmt.Errorf("malformed loadavg: %q", data)
	}
	load1, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("parse loadavg: %w", err)
	}

	st := protocol.State{
		FullText:  fmt.Sprintf("%s %s %s %s", l.prefix, fields[0], fields[1], fields[2]),
		ShortText: fmt.Sprintf("%s %s", l.prefix, fields[0]),
	}
	if color, ok := theme.ColorFor(theme.ForPercent(load1, l.ncpu, 2*l.ncpu)); ok {
		st.Color = color
	}
	l.Update(st)
	return nil
}
