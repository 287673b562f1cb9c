package blocks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"goblocks/config"
	"goblocks/protocol"
	"goblocks/theme"
)

// CPUBlock shows aggregate CPU utilization computed from /proc/stat deltas.
// The first poll only records a baseline, so it reports 0%.
type CPUBlock struct {
	PollingBlock

	warn      float64
	danger    float64
	precision int
	prefix    string

	mu        sync.Mutex
	prevTotal uint64
	prevIdle  uint64
	havePrev  bool
}

func NewCPU(cfg config.CPUModule) *CPUBlock {
	c := &CPUBlock{
		warn:      float64(cfg.WarnPercent),
		danger:    float64(cfg.DangerPercent),
		precision: cfg.Precision,
		prefix:    cfg.Prefix,
	}
	c.PollingBlock = PollingBlock{
		Base:     NewBase("cpu", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     c.poll,
	}
	return c
}

func (c *CPUBlock) poll(context.Context) error {
	total, idle, err := readProcStat("/proc/stat")
	if err != nil {
		return fmt.Errorf("read cpu stats: %w", err)
	}

	c.mu.Lock()
	var percent float64
	if c.havePrev {
		deltaTotal := float64(total - c.prevTotal)
		deltaIdle := float64(idle - c.prevIdle)
		if deltaTotal > 0 {
			percent = (deltaTotal - deltaIdle) / deltaTotal * 100.0
		}
	}
	c.prevTotal = total
	c.prevIdle = idle
	c.havePrev = true
	c.mu.Unlock()

	st := protocol.State{
		FullText: fmt.Sprintf("%s %s", c.prefix, formatPercent(percent, c.precision)),
	}
	if color, ok := theme.ColorFor(theme.ForPercent(percent, c.warn, c.danger)); ok {
		st.Color = color
	}
	c.Update(st)
	return nil
}

// readProcStat parses the aggregate "cpu" line and returns total and idle
// jiffies. Idle includes iowait, matching the usual utilization formula.
func readProcStat(path string) (total, idle uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(line)
	if len(fields) < 9 || fields[0] != "cpu" {
		return 0, 0, errors.New("malformed cpu line")
	}
	vals := make([]uint64, 8)
	for i := range vals {
		v, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = v
	}
	user, nice, system, idleRaw, iowait, irq, softirq, steal := vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], vals[7]
	idle = idleRaw + iowait
	total = idle + user + nice + system + irq + softirq + steal
	return total, idle, nil
}

func formatPercent(p float64, precision int) string {
	if precision == 0 {
		return strconv.FormatInt(int64(p+0.5), 10) + "%"
	}
	return fmt.Sprintf("%.1f%%", p)
}
