package blocks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"goblocks/config"
)

func writeSupply(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for file, body := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindBattery(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains\n"})
	writeSupply(t, root, "BAT0", map[string]string{"type": "Battery\n"})

	name, err := findBattery(root)
	if err != nil {
		t.Fatalf("findBattery: %v", err)
	}
	if name != "BAT0" {
		t.Errorf("battery = %q, want BAT0", name)
	}
}

func TestFindBatteryNone(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains\n"})
	if _, err := findBattery(root); err == nil {
		t.Error("expected error without a battery")
	}
}

func newTestBattery(t *testing.T, files map[string]string) *BatteryBlock {
	t.Helper()
	root := t.TempDir()
	writeSupply(t, root, "BAT0", files)
	b := NewBattery(config.BatteryModule{IntervalSec: 30, LowPercent: 10})
	b.sysDir = root
	b.Setup(Sink{})
	return b
}

func TestBatteryDischarging(t *testing.T) {
	b := newTestBattery(t, map[string]string{
		"type":     "Battery\n",
		"capacity": "42\n",
		"status":   "Discharging\n",
	})
	if err := b.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	got := b.Result()
	if got.FullText != "BAT 42%" {
		t.Errorf("FullText = %q, want BAT 42%%", got.FullText)
	}
	if got.Urgent != nil && *got.Urgent {
		t.Error("42%% should not be urgent")
	}
}

func TestBatteryCharging(t *testing.T) {
	b := newTestBattery(t, map[string]string{
		"type":     "Battery\n",
		"capacity": "80\n",
		"status":   "Charging\n",
	})
	if err := b.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if got := b.Result().FullText; got != "CHR 80%" {
		t.Errorf("FullText = %q, want CHR 80%%", got)
	}
}

func TestBatteryLowIsUrgent(t *testing.T) {
	b := newTestBattery(t, map[string]string{
		"type":     "Battery\n",
		"capacity": "5\n",
		"status":   "Discharging\n",
	})
	if err := b.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	got := b.Result()
	if got.Urgent == nil || !*got.Urgent {
		t.Errorf("5%% discharging should be urgent: %+v", got)
	}
}

func TestBatteryMissingFreezes(t *testing.T) {
	b := NewBattery(config.BatteryModule{IntervalSec: 30, LowPercent: 10})
	b.sysDir = t.TempDir()
	b.Setup(Sink{})

	if err := b.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !b.Frozen() {
		t.Fatal("block should freeze without a battery")
	}
	if got := b.Result().FullText; got != "No battery found" {
		t.Errorf("FullText = %q", got)
	}
}
