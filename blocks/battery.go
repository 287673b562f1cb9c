package blocks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"goblocks/config"
	"goblocks/protocol"
	"goblocks/theme"
)

const powerSupplyDir = "/sys/class/power_supply"

// BatteryBlock shows charge percentage and charging status for the first
// battery under /sys/class/power_supply. On a machine with no battery the
// block freezes with a "not found" message instead of failing startup.
type BatteryBlock struct {
	PollingBlock

	low     float64
	sysDir  string // power-supply root, overridable in tests
	battery string // resolved on first poll
}

func NewBattery(cfg config.BatteryModule) *BatteryBlock {
	b := &BatteryBlock{
		low:    float64(cfg.LowPercent),
		sysDir: powerSupplyDir,
	}
	b.PollingBlock = PollingBlock{
		Base:     NewBase("battery", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     b.poll,
	}
	return b
}

func (b *BatteryBlock) poll(context.Context) error {
	if b.battery == "" {
		name, err := findBattery(b.sysDir)
		if err != nil {
			b.Abort(protocol.State{FullText: "No battery found"})
			return nil
		}
		b.battery = name
	}

	dir := filepath.Join(b.sysDir, b.battery)
	capacity, err := readIntFile(filepath.Join(dir, "capacity"))
	if err != nil {
		return fmt.Errorf("read battery capacity: %w", err)
	}
	status, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return fmt.Errorf("read battery status: %w", err)
	}

	label := "BAT"
	switch strings.TrimSpace(string(status)) {
	case "Charging":
		label = "CHR"
	case "Full":
		label = "FULL"
	}

	st := protocol.State{FullText: fmt.Sprintf("%s %d%%", label, capacity)}
	discharging := label == "BAT"
	if discharging && float64(capacity) <= b.low {
		st.Urgent = protocol.Bool(true)
		if color, ok := theme.ColorFor(theme.SeverityDanger); ok {
			st.Color = color
		}
	} else if discharging && float64(capacity) <= 2*b.low {
		if color, ok := theme.ColorFor(theme.SeverityWarn); ok {
			st.Color = color
		}
	}
	b.Update(st)
	return nil
}

func findBattery(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		typ, err := os.ReadFile(filepath.Join(dir, name, "type"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(typ)) == "Battery" {
			return name, nil
		}
	}
	return "", fmt.Errorf("no battery under %s", dir)
}

func readIntFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}
