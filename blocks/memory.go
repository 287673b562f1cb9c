package blocks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"goblocks/config"
	"goblocks/protocol"
	"goblocks/theme"
)

// MemoryBlock shows memory usage from /proc/meminfo, as a percentage or as
// an available/used byte count depending on the configured format.
type MemoryBlock struct {
	PollingBlock

	warn      float64
	danger    float64
	precision int
	prefix    string
	format    string // percent|available|used
}

func NewMemory(cfg config.MemoryModule) *MemoryBlock {
	m := &MemoryBlock{
		warn:      float64(cfg.WarnPercent),
		danger:    float64(cfg.DangerPercent),
		precision: cfg.Precision,
		prefix:    cfg.Prefix,
		format:    cfg.Format,
	}
	m.PollingBlock = PollingBlock{
		Base:     NewBase("mem", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     m.poll,
	}
	return m
}

func (m *MemoryBlock) poll(context.Context) error {
	info, err := readMemInfo("/proc/meminfo")
	if err != nil {
		return fmt.Errorf("read meminfo: %w", err)
	}

	var text string
	switch m.format {
	case "available":
		text = fmt.Sprintf("%s %s free", m.prefix, humanBytes(info.available))
	case "used":
		text = fmt.Sprintf("%s %s used", m.prefix, humanBytes(info.used))
	default:
		text = fmt.Sprintf("%s %s", m.prefix, formatPercent(info.percent, m.precision))
	}

	st := protocol.State{FullText: text}
	if color, ok := theme.ColorFor(theme.ForPercent(info.percent, m.warn, m.danger)); ok {
		st.Color = color
	}
	m.Update(st)
	return nil
}

type memInfo struct {
	total     uint64
	available uint64
	used      uint64
	percent   float64
}

// readMemInfo prefers MemAvailable; older kernels fall back to
// MemFree + Buffers + Cached.
func readMemInfo(path string) (memInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return memInfo{}, err
	}
	defer f.Close()

	kb := map[string]uint64{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		key := strings.TrimSuffix(fields[0], ":")
		switch key {
		case "MemTotal", "MemAvailable", "MemFree", "Buffers", "Cached":
			v, err := strconv.ParseUint(fields[1], 10, 64)
			if err == nil {
				kb[key] = v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return memInfo{}, err
	}
	total, ok := kb["MemTotal"]
	if !ok || total == 0 {
		return memInfo{}, errors.New("no MemTotal")
	}
	availableKb, ok := kb["MemAvailable"]
	if !ok {
		availableKb = kb["MemFree"] + kb["Buffers"] + kb["Cached"]
	}
	info := memInfo{
		total:     total * 1024,
		available: availableKb * 1024,
		used:      (total - availableKb) * 1024,
	}
	info.percent = float64(info.used) / float64(info.total) * 100
	return info, nil
}

// humanBytes converts bytes to a short human string (KiB, MiB, GiB) with up
// to one decimal.
func humanBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	value := float64(b) / float64(div)
	if value < 10 {
		return fmt.Sprintf("%.1f%ciB", value, "KMGTPE"[exp])
	}
	return fmt.Sprintf("%.0f%ciB", value, "KMGTPE"[exp])
}
