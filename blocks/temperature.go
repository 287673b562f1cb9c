package blocks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"goblocks/config"
	"goblocks/protocol"
	"goblocks/theme"
)

const thermalDir = "/sys/class/thermal"

// TemperatureBlock shows a thermal zone temperature from
// /sys/class/thermal. Without a configured zone it picks the first zone
// exposing a readable temp file. A machine without thermal zones freezes
// the block with a "not found" message instead of failing startup.
type TemperatureBlock struct {
	PollingBlock

	warn   float64
	danger float64
	prefix string
	sysDir string // thermal root, overridable in tests
	zone   string // resolved on first poll
}

func NewTemperature(cfg config.TempModule) *TemperatureBlock {
	t := &TemperatureBlock{
		warn:   float64(cfg.WarnDegrees),
		danger: float64(cfg.DangerDegrees),
		prefix: cfg.Prefix,
		sysDir: thermalDir,
		zone:   cfg.Zone,
	}
	t.PollingBlock = PollingBlock{
		Base:     NewBase("temp", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     t.poll,
	}
	return t
}

func (t *TemperatureBlock) poll(context.Context) error {
	if t.zone == "" {
		name, err := findThermalZone(t.sysDir)
		if err != nil {
			t.Abort(protocol.State{FullText: "No thermal zone found"})
			return nil
		}
		t.zone = name
	}

	// The kernel reports millidegrees Celsius.
	milli, err := readIntFile(filepath.Join(t.sysDir, t.zone, "temp"))
	if err != nil {
		return fmt.Errorf("read temperature: %w", err)
	}
	degrees := float64(milli) / 1000

	st := protocol.State{FullText: fmt.Sprintf("%s %.0f°C", t.prefix, degrees)}
	if color, ok := theme.ColorFor(theme.ForPercent(degrees, t.warn, t.danger)); ok {
		st.Color = color
	}
	t.Update(st)
	return nil
}

func findThermalZone(dir string) (string, error) {
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
		if !strings.HasPrefix(name, "thermal_zone") {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name, "temp")); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no thermal zone under %s", dir)
}
