// Package config loads the TOML configuration. Values decode over a set of
// defaults, the order of [modules.*] tables is captured so the bar lays
// blocks out in config order, and everything is clamped to sane ranges after
// decoding.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	TickHz      int     `toml:"tick_hz"` // heartbeat flushes per second
	Theme       Theme   `toml:"theme"`
	Modules     Modules `toml:"modules"`
	moduleOrder []string // order of module tables as they appeared in TOML
}

type Theme struct {
	Warn   string `toml:"warn"`
	Danger string `toml:"danger"`
}

type Modules struct {
	Clock     ClockModule     `toml:"clock"`
	CPU       CPUModule       `toml:"cpu"`
	Mem       MemoryModule    `toml:"mem"`
	Load      LoadModule      `toml:"load"`
	Disk      DiskModule      `toml:"disk"`
	Net       NetModule       `toml:"net"`
	Battery   BatteryModule   `toml:"battery"`
	Temp      TempModule      `toml:"temp"`
	Backlight BacklightModule `toml:"backlight"`
	Shell     ShellModule     `toml:"shell"`
	Toggle    ToggleModule    `toml:"toggle"`
	HTTP      HTTPModule      `toml:"http"`
	Player    PlayerModule    `toml:"player"`
	Text      TextModule      `toml:"text"`
}

type ClockModule struct {
	Enabled     bool   `toml:"enabled"`
	FormatTime  string `toml:"format_time"`
	FormatDate  string `toml:"format_date"`
	IntervalSec int    `toml:"interval_sec"`
	Signal      string `toml:"signal"`
}

type CPUModule struct {
	Enabled       bool   `toml:"enabled"`
	IntervalSec   int    `toml:"interval_sec"`   // sampling interval seconds (default 2)
	WarnPercent   int    `toml:"warn_percent"`   // warn threshold (default 70)
	DangerPercent int    `toml:"danger_percent"` // danger threshold (default 90)
	Precision     int    `toml:"precision"`      // decimals (0 or 1)
	Prefix        string `toml:"prefix"`         // text/icon prefix (default "CPU")
	Signal        string `toml:"signal"`
}

type MemoryModule struct {
	Enabled       bool   `toml:"enabled"`
	IntervalSec   int    `toml:"interval_sec"`
	WarnPercent   int    `toml:"warn_percent"`
	DangerPercent int    `toml:"danger_percent"`
	Precision     int    `toml:"precision"`
	Prefix        string `toml:"prefix"`
	Format        string `toml:"format"` // one of: percent, available, used
	Signal        string `toml:"signal"`
}

type LoadModule struct {
	Enabled     bool   `toml:"enabled"`
	IntervalSec int    `toml:"interval_sec"`
	Prefix      string `toml:"prefix"`
	Signal      string `toml:"signal"`
}

type DiskModule struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"` // mount point to report (default "/")
	IntervalSec   int    `toml:"interval_sec"`
	WarnPercent   int    `toml:"warn_percent"`
	DangerPercent int    `toml:"danger_percent"`
	Prefix        string `toml:"prefix"`
	Signal        string `toml:"signal"`
}

type NetModule struct {
	Enabled     bool   `toml:"enabled"`
	Interface   string `toml:"interface"` // empty picks the first running non-loopback
	IntervalSec int    `toml:"interval_sec"`
	Signal      string `toml:"signal"`
}

type BatteryModule struct {
	Enabled     bool   `toml:"enabled"`
	IntervalSec int    `toml:"interval_sec"`
	LowPercent  int    `toml:"low_percent"` // urgent below this (default 10)
	Signal      string `toml:"signal"`
}

type TempModule struct {
	Enabled       bool   `toml:"enabled"`
	Zone          string `toml:"zone"` // name under /sys/class/thermal; empty picks the first
	IntervalSec   int    `toml:"interval_sec"`
	WarnDegrees   int    `toml:"warn_degrees"`   // °C (default 60)
	DangerDegrees int    `toml:"danger_degrees"` // °C (default 85)
	Prefix        string `toml:"prefix"`
	Signal        string `toml:"signal"`
}

type BacklightModule struct {
	Enabled bool   `toml:"enabled"`
	Device  string `toml:"device"` // name under /sys/class/backlight
	Signal  string `toml:"signal"`
}

type ShellModule struct {
	Enabled     bool   `toml:"enabled"`
	Command     string `toml:"command"`
	IntervalSec int    `toml:"interval_sec"`
	TimeoutSec  int    `toml:"timeout_sec"` // per-run command timeout (default 10)
	OnLeft      string `toml:"on_left"`     // commands run on mouse buttons
	OnMiddle    string `toml:"on_middle"`
	OnRight     string `toml:"on_right"`
	OnScrollUp  string `toml:"on_scroll_up"`
	OnScrollDn  string `toml:"on_scroll_down"`
	Signal      string `toml:"signal"`
}

type ToggleModule struct {
	Enabled      bool   `toml:"enabled"`
	CommandState string `toml:"command_state"` // stdout non-empty means ON
	CommandOn    string `toml:"command_on"`    // run when OFF and clicked
	CommandOff   string `toml:"command_off"`   // run when ON and clicked
	FormatOn     string `toml:"format_on"`
	FormatOff    string `toml:"format_off"`
	IntervalSec  int    `toml:"interval_sec"`
	Signal       string `toml:"signal"`
}

type HTTPModule struct {
	Enabled     bool   `toml:"enabled"`
	URL         string `toml:"url"`
	IntervalSec int    `toml:"interval_sec"`
	TimeoutSec  int    `toml:"timeout_sec"`
	FormatError string `toml:"format_error"`
	Signal      string `toml:"signal"`
}

type PlayerModule struct {
	Enabled bool   `toml:"enabled"`
	Player  string `toml:"player"` // MPRIS bus suffix, e.g. "spotify"; empty matches any
	Signal  string `toml:"signal"`
}

type TextModule struct {
	Enabled bool   `toml:"enabled"`
	Text    string `toml:"text"`
	Color   string `toml:"color"`
}

func Defaults() *Config {
	return &Config{
		TickHz: 1,
		Modules: Modules{
			Clock: ClockModule{
				Enabled:     true,
				FormatTime:  "2006-01-02 15:04:05",
				FormatDate:  "Mon Jan 2 2006",
				IntervalSec: 1,
			},
			CPU:     CPUModule{Enabled: true, IntervalSec: 2, WarnPercent: 70, DangerPercent: 90, Prefix: "CPU"},
			Mem:     MemoryModule{Enabled: true, IntervalSec: 5, WarnPercent: 70, DangerPercent: 90, Prefix: "MEM", Format: "percent"},
			Load:    LoadModule{IntervalSec: 5, Prefix: "LOAD"},
			Disk:    DiskModule{Path: "/", IntervalSec: 30, WarnPercent: 80, DangerPercent: 95, Prefix: "DISK"},
			Net:     NetModule{IntervalSec: 3},
			Battery: BatteryModule{IntervalSec: 30, LowPercent: 10},
			Temp:    TempModule{IntervalSec: 5, WarnDegrees: 60, DangerDegrees: 85, Prefix: "T"},
			Shell:   ShellModule{IntervalSec: 10, TimeoutSec: 10},
			Toggle:  ToggleModule{IntervalSec: 10, FormatOn: "ON", FormatOff: "OFF"},
			HTTP:    HTTPModule{IntervalSec: 300, TimeoutSec: 5, FormatError: "ERROR"},
		},
	}
}

// Load loads configuration from explicit path or discovered search path.
// Precedence: provided path (if exists) else first existing search path else
// defaults. Missing file yields defaults and an error; parse errors also
// return defaults + error.
func Load(path string) (*Config, error) {
	defaults := Defaults()
	var chosen string
	if path != "" {
		chosen = path
	} else {
		for _, p := range searchPaths() {
			if _, err := os.Stat(p); err == nil {
				chosen = p
				break
			}
		}
	}
	if chosen == "" { // no config file found
		return defaults, errors.New("no config file found; using defaults")
	}
	data, err := os.ReadFile(chosen)
	if err != nil {
		return defaults, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), defaults) // decode overlays onto defaults
	if err != nil {
		return defaults, fmt.Errorf("parse config: %w", err)
	}
	// Capture module order from metadata keys: modules.<name>
	seen := map[string]struct{}{}
	for _, k := range md.Keys() {
		if len(k) == 2 && k[0] == "modules" {
			name := k[1]
			if _, ok := seen[name]; !ok {
				defaults.moduleOrder = append(defaults.moduleOrder, name)
				seen[name] = struct{}{}
			}
		}
	}
	defaults.normalize()
	return defaults, nil
}

func searchPaths() []string {
	var out []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, "goblocks", "config.toml"))
	}
	if home, _ := os.UserHomeDir(); home != "" {
		out = append(out, filepath.Join(home, ".config", "goblocks", "config.toml"))
	}
	return out
}

// ModuleOrder returns a copy of the module order slice (may be empty).
func (c *Config) ModuleOrder() []string {
	if len(c.moduleOrder) == 0 {
		return nil
	}
	out := make([]string, len(c.moduleOrder))
	copy(out, c.moduleOrder)
	return out
}

// normalize clamps and validates config values after decoding.
func (c *Config) normalize() {
	c.TickHz = clampInt(c.TickHz, 1, 20, 1)

	m := &c.Modules
	m.Clock.IntervalSec = clampInt(m.Clock.IntervalSec, 1, 3600, 1)
	m.CPU.IntervalSec = clampInt(m.CPU.IntervalSec, 1, 30, 2)
	m.CPU.Precision = clampInt(m.CPU.Precision, 0, 1, 0)
	m.Mem.IntervalSec = clampInt(m.Mem.IntervalSec, 1, 60, 5)
	m.Mem.Precision = clampInt(m.Mem.Precision, 0, 1, 0)
	if !validMemFormat(m.Mem.Format) {
		m.Mem.Format = "percent"
	}
	m.Load.IntervalSec = clampInt(m.Load.IntervalSec, 1, 60, 5)
	m.Disk.IntervalSec = clampInt(m.Disk.IntervalSec, 1, 3600, 30)
	if m.Disk.Path == "" {
		m.Disk.Path = "/"
	}
	m.Net.IntervalSec = clampInt(m.Net.IntervalSec, 1, 60, 3)
	m.Battery.IntervalSec = clampInt(m.Battery.IntervalSec, 1, 600, 30)
	m.Battery.LowPercent = clampInt(m.Battery.LowPercent, 1, 50, 10)
	m.Temp.IntervalSec = clampInt(m.Temp.IntervalSec, 1, 600, 5)
	if m.Temp.WarnDegrees <= 0 {
		m.Temp.WarnDegrees = 60
	}
	if m.Temp.DangerDegrees <= m.Temp.WarnDegrees {
		m.Temp.DangerDegrees = m.Temp.WarnDegrees + 10
	}
	m.Shell.IntervalSec = clampInt(m.Shell.IntervalSec, 1, 3600, 10)
	m.Shell.TimeoutSec = clampInt(m.Shell.TimeoutSec, 1, 300, 10)
	m.Toggle.IntervalSec = clampInt(m.Toggle.IntervalSec, 1, 3600, 10)
	m.HTTP.IntervalSec = clampInt(m.HTTP.IntervalSec, 1, 86400, 300)
	m.HTTP.TimeoutSec = clampInt(m.HTTP.TimeoutSec, 1, 60, 5)

	clampPercents(&m.CPU.WarnPercent, &m.CPU.DangerPercent, 70)
	clampPercents(&m.Mem.WarnPercent, &m.Mem.DangerPercent, 70)
	clampPercents(&m.Disk.WarnPercent, &m.Disk.DangerPercent, 80)
}

// clampPercents enforces 0 < warn < danger <= 100.
func clampPercents(warn, danger *int, warnDefault int) {
	if *warn <= 0 {
		*warn = warnDefault
	}
	if *danger <= *warn {
		*danger = *warn + 10
	}
	if *danger > 100 {
		*danger = 100
	}
}

func clampInt(val, min, max, fallback int) int {
	if val == 0 && fallback != 0 { // allow zero to trigger fallback when min>0
		val = fallback
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func validMemFormat(f string) bool {
	switch f {
	case "percent", "available", "used":
		return true
	}
	return false
}
