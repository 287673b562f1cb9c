package blocks

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"goblocks/config"
)

// Spec describes how to enable and build one catalog block, plus the
// config-declared OS signal bound to it at registration time.
type Spec struct {
	Name   string
	Enable func(*config.Config) bool
	Build  func(*config.Config) Block
	Signal func(*config.Config) string
}

var (
	reg      = map[string]Spec{}
	regOrder []string
)

// Register adds a block spec if not already present. Subsequent
// registrations with the same name overwrite the spec but preserve original
// ordering.
func Register(spec Spec) {
	if _, exists := reg[spec.Name]; !exists {
		regOrder = append(regOrder, spec.Name)
	}
	reg[spec.Name] = spec
}

// Registration pairs a built block with the signals to bind at
// registration.
type Registration struct {
	Block   Block
	Signals []os.Signal
}

// Build returns block registrations in the order:
// 1. Order of module tables as specified in config file.
// 2. Remaining registered specs (those not present in config order) in
// registration order.
func Build(cfg *config.Config) []Registration {
	order := cfg.ModuleOrder()
	seen := map[string]struct{}{}
	out := []Registration{}
	appendIf := func(name string) {
		spec, ok := reg[name]
		if !ok {
			return // unknown name in config
		}
		if _, dup := seen[name]; dup {
			return
		}
		if spec.Enable != nil && !spec.Enable(cfg) {
			return
		}
		r := Registration{Block: spec.Build(cfg)}
		if spec.Signal != nil {
			if sig := parseSignal(spec.Signal(cfg)); sig != nil {
				r.Signals = append(r.Signals, sig)
			}
		}
		out = append(out, r)
		seen[name] = struct{}{}
	}
	if len(order) > 0 { // explicit config file: only build those listed and enabled
		for _, n := range order {
			appendIf(n)
		}
		return out
	}
	// No explicit file order (defaults case): use registration order
	for _, n := range regOrder {
		appendIf(n)
	}
	return out
}

// parseSignal resolves a signal name like "SIGUSR1" (or "USR1") to the
// signal value; unknown names yield nil and the binding is skipped.
func parseSignal(name string) os.Signal {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}
	sig := unix.SignalNum(name)
	if sig == 0 {
		return nil
	}
	return sig
}

func init() {
	Register(Spec{
		Name:   "clock",
		Enable: func(c *config.Config) bool { return c.Modules.Clock.Enabled },
		Build:  func(c *config.Config) Block { return NewClock(c.Modules.Clock) },
		Signal: func(c *config.Config) string { return c.Modules.Clock.Signal },
	})
	Register(Spec{
		Name:   "cpu",
		Enable: func(c *config.Config) bool { return c.Modules.CPU.Enabled },
		Build:  func(c *config.Config) Block { return NewCPU(c.Modules.CPU) },
		Signal: func(c *config.Config) string { return c.Modules.CPU.Signal },
	})
	Register(Spec{
		Name:   "mem",
		Enable: func(c *config.Config) bool { return c.Modules.Mem.Enabled },
		Build:  func(c *config.Config) Block { return NewMemory(c.Modules.Mem) },
		Signal: func(c *config.Config) string { return c.Modules.Mem.Signal },
	})
	Register(Spec{
		Name:   "load",
		Enable: func(c *config.Config) bool { return c.Modules.Load.Enabled },
		Build:  func(c *config.Config) Block { return NewLoad(c.Modules.Load) },
		Signal: func(c *config.Config) string { return c.Modules.Load.Signal },
	})
	Register(Spec{
		Name:   "disk",
		Enable: func(c *config.Config) bool { return c.Modules.Disk.Enabled },
		Build:  func(c *config.Config) Block { return NewDisk(c.Modules.Disk) },
		Signal: func(c *config.Config) string { return c.Modules.Disk.Signal },
	})
	Register(Spec{
		Name:   "net",
		Enable: func(c *config.Config) bool { return c.Modules.Net.Enabled },
		Build:  func(c *config.Config) Block { return NewNetwork(c.Modules.Net) },
		Signal: func(c *config.Config) string { return c.Modules.Net.Signal },
	})
	Register(Spec{
		Name:   "battery",
		Enable: func(c *config.Config) bool { return c.Modules.Battery.Enabled },
		Build:  func(c *config.Config) Block { return NewBattery(c.Modules.Battery) },
		Signal: func(c *config.Config) string { return c.Modules.Battery.Signal },
	})
	Register(Spec{
		Name:   "temp",
		Enable: func(c *config.Config) bool { return c.Modules.Temp.Enabled },
		Build:  func(c *config.Config) Block { return NewTemperature(c.Modules.Temp) },
		Signal: func(c *config.Config) string { return c.Modules.Temp.Signal },
	})
	Register(Spec{
		Name:   "backlight",
		Enable: func(c *config.Config) bool { return c.Modules.Backlight.Enabled },
		Build:  func(c *config.Config) Block { return NewBacklight(c.Modules.Backlight) },
		Signal: func(c *config.Config) string { return c.Modules.Backlight.Signal },
	})
	Register(Spec{
		Name:   "shell",
		Enable: func(c *config.Config) bool { return c.Modules.Shell.Enabled && c.Modules.Shell.Command != "" },
		Build:  func(c *config.Config) Block { return NewShell(c.Modules.Shell) },
		Signal: func(c *config.Config) string { return c.Modules.Shell.Signal },
	})
	Register(Spec{
		Name:   "toggle",
		Enable: func(c *config.Config) bool { return c.Modules.Toggle.Enabled && c.Modules.Toggle.CommandState != "" },
		Build:  func(c *config.Config) Block { return NewToggle(c.Modules.Toggle) },
		Signal: func(c *config.Config) string { return c.Modules.Toggle.Signal },
	})
	Register(Spec{
		Name:   "http",
		Enable: func(c *config.Config) bool { return c.Modules.HTTP.Enabled && c.Modules.HTTP.URL != "" },
		Build:  func(c *config.Config) Block { return NewHTTP(c.Modules.HTTP) },
		Signal: func(c *config.Config) string { return c.Modules.HTTP.Signal },
	})
	Register(Spec{
		Name:   "player",
		Enable: func(c *config.Config) bool { return c.Modules.Player.Enabled },
		Build:  func(c *config.Config) Block { return NewPlayer(c.Modules.Player) },
		Signal: func(c *config.Config) string { return c.Modules.Player.Signal },
	})
	Register(Spec{
		Name:   "text",
		Enable: func(c *config.Config) bool { return c.Modules.Text.Enabled },
		Build:  func(c *config.Config) Block { return NewText(c.Modules.Text) },
	})
}
