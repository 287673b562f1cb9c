package blocks

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"goblocks/config"
	"goblocks/protocol"
	"goblocks/theme"
)

// DiskBlock shows free space for one mount point via statfs.
type DiskBlock struct {
	PollingBlock

	path   string
	warn   float64
	danger float64
	prefix string
}

func NewDisk(cfg config.DiskModule) *DiskBlock {
	d := &DiskBlock{
		path:   cfg.Path,
		warn:   float64(cfg.WarnPercent),
		danger: float64(cfg.DangerPercent),
		prefix: cfg.Prefix,
	}
	d.PollingBlock = PollingBlock{
		Base:     NewBase("disk", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     d.poll,
	}
	return d
}

func (d *DiskBlock) poll(context.Context) error {
	var st unix.Statfs_t
	if err := unix.Statfs(d.path, &st); err != nil {
		return fmt.Errorf("statfs %s: %w", d.path, err)
	}
	total := st.Blocks * uint64(st.Bsize)
	free := st.Bavail * uint64(st.Bsize)
	if total == 0 {
		return fmt.Errorf("statfs %s: zero total blocks", d.path)
	}
	usedPercent := float64(total-free) / float64(total) * 100

	out := protocol.State{
		FullText: fmt.Sprintf("%s %s %s free", d.prefix, d.path, humanBytes(free)),
	}
	if color, ok := theme.ColorFor(theme.ForPercent(usedPercent, d.warn, d.danger)); ok {
		out.Color = color
	}
	d.Update(out)
	return nil
}
