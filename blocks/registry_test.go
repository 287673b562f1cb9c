package blocks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/unix"

	"goblocks/config"
)

func builtNames(regs []Registration) []string {
	names := make([]string, 0, len(regs))
	for _, r := range regs {
		names = append(names, r.Block.Name())
	}
	return names
}

func TestBuildDefaultsUseRegistrationOrder(t *testing.T) {
	regs := Build(config.Defaults())
	want := []string{"clock", "cpu", "mem"}
	if diff := cmp.Diff(want, builtNames(regs)); diff != "" {
		t.Errorf("built blocks (-want +got):\n%s", diff)
	}
}

func loadConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestBuildFollowsConfigOrder(t *testing.T) {
	cfg := loadConfig(t, `
[modules.mem]
enabled = true

[modules.clock]
enabled = true
`)
	regs := Build(cfg)
	// Explicit config order wins, and default-enabled modules not listed
	// (cpu) are left out.
	want := []string{"mem", "clock"}
	if diff := cmp.Diff(want, builtNames(regs)); diff != "" {
		t.Errorf("built blocks (-want +got):\n%s", diff)
	}
}

func TestBuildSkipsDisabledAndUnknown(t *testing.T) {
	cfg := loadConfig(t, `
[modules.bogus]
enabled = true

[modules.cpu]
enabled = false

[modules.clock]
enabled = true
`)
	regs := Build(cfg)
	want := []string{"clock"}
	if diff := cmp.Diff(want, builtNames(regs)); diff != "" {
		t.Errorf("built blocks (-want +got):\n%s", diff)
	}
}

func TestBuildBindsConfiguredSignal(t *testing.T) {
	cfg := config.Defaults()
	cfg.Modules.CPU.Signal = "SIGUSR1"

	for _, r := range Build(cfg) {
		if r.Block.Name() != "cpu" {
			continue
		}
		if len(r.Signals) != 1 || r.Signals[0] != unix.SIGUSR1 {
			t.Fatalf("cpu signals = %v, want [SIGUSR1]", r.Signals)
		}
		return
	}
	t.Fatal("cpu block not built")
}

func TestParseSignal(t *testing.T) {
	tests := []struct {
		in   string
		want os.Signal
	}{
		{"SIGUSR1", unix.SIGUSR1},
		{"usr2", unix.SIGUSR2},
		{" sighup ", unix.SIGHUP},
		{"", nil},
		{"SIGNOPE", nil},
	}
	for _, tc := range tests {
		if got := parseSignal(tc.in); got != tc.want {
			t.Errorf("parseSignal(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
