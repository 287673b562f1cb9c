package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err == nil {
		t.Fatal("Load() err = nil, want missing-file error")
	}
	if diff := cmp.Diff(Defaults().Modules, cfg.Modules); diff != "" {
		t.Errorf("modules (-want +got):\n%s", diff)
	}
	if cfg.TickHz != 1 {
		t.Errorf("TickHz = %d, want 1", cfg.TickHz)
	}
}

func TestLoadOverlaysOnDefaults(t *testing.T) {
	path := writeConfig(t, `
tick_hz = 4

[theme]
warn = "#ebcb8b"

[modules.cpu]
interval_sec = 5
warn_percent = 60

[modules.battery]
enabled = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TickHz != 4 {
		t.Errorf("TickHz = %d, want 4", cfg.TickHz)
	}
	if cfg.Theme.Warn != "#ebcb8b" {
		t.Errorf("Theme.Warn = %q", cfg.Theme.Warn)
	}
	if got := cfg.Modules.CPU.IntervalSec; got != 5 {
		t.Errorf("cpu interval = %d, want 5", got)
	}
	if got := cfg.Modules.CPU.WarnPercent; got != 60 {
		t.Errorf("cpu warn = %d, want 60", got)
	}
	// Untouched fields keep their defaults.
	if got := cfg.Modules.CPU.Prefix; got != "CPU" {
		t.Errorf("cpu prefix = %q, want CPU", got)
	}
	if !cfg.Modules.Clock.Enabled {
		t.Error("clock should stay enabled by default")
	}
	if !cfg.Modules.Battery.Enabled {
		t.Error("battery not enabled")
	}
}

func TestLoadCapturesModuleOrder(t *testing.T) {
	path := writeConfig(t, `
[modules.battery]
enabled = true

[modules.clock]
enabled = true

[modules.cpu]
enabled = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"battery", "clock", "cpu"}
	if diff := cmp.Diff(want, cfg.ModuleOrder()); diff != "" {
		t.Errorf("module order (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := writeConfig(t, "tick_hz = [broken")
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("Load() err = nil, want parse error")
	}
	if cfg == nil || cfg.TickHz != Defaults().TickHz {
		t.Error("parse failure should still hand back defaults")
	}
}

func TestNormalizeClampsRanges(t *testing.T) {
	path := writeConfig(t, `
tick_hz = 500

[modules.cpu]
interval_sec = 9000
precision = 7
warn_percent = 95
danger_percent = 40

[modules.mem]
format = "bogus"

[modules.disk]
path = ""
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TickHz != 20 {
		t.Errorf("TickHz = %d, want 20", cfg.TickHz)
	}
	if got := cfg.Modules.CPU.IntervalSec; got != 30 {
		t.Errorf("cpu interval = %d, want 30", got)
	}
	if got := cfg.Modules.CPU.Precision; got != 1 {
		t.Errorf("cpu precision = %d, want 1", got)
	}
	// danger <= warn gets pushed above warn, capped at 100.
	if w, d := cfg.Modules.CPU.WarnPercent, cfg.Modules.CPU.DangerPercent; !(w < d && d <= 100) {
		t.Errorf("cpu thresholds = %d/%d, want warn < danger <= 100", w, d)
	}
	if got := cfg.Modules.Mem.Format; got != "percent" {
		t.Errorf("mem format = %q, want percent", got)
	}
	if got := cfg.Modules.Disk.Path; got != "/" {
		t.Errorf("disk path = %q, want /", got)
	}
}

func TestLoadSearchPathXDG(t *testing.T) {
	xdg := t.TempDir()
	dir := filepath.Join(xdg, "goblocks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("tick_hz = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickHz != 2 {
		t.Errorf("TickHz = %d, want 2", cfg.TickHz)
	}
}
