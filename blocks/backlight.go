package blocks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"goblocks/config"
	"goblocks/protocol"
)

const backlightDir = "/sys/class/backlight"

// NewBacklight builds a watcher block on the brightness file of a backlight
// device, so it only updates when the brightness actually changes. An absent
// device leaves the block frozen with a "File not found" message.
func NewBacklight(cfg config.BacklightModule) *WatcherBlock {
	return newBacklight(backlightDir, cfg.Device)
}

func newBacklight(sysDir, device string) *WatcherBlock {
	if device == "" {
		device = firstEntry(sysDir)
	}
	dir := filepath.Join(sysDir, device)

	w := &WatcherBlock{
		Base: NewBase("backlight", barDefaults()),
		Path: filepath.Join(dir, "brightness"),
	}
	w.Refresh = func(context.Context) error {
		brightness, err := readIntFile(filepath.Join(dir, "brightness"))
		if err != nil {
			return fmt.Errorf("read brightness: %w", err)
		}
		maxBrightness, err := readIntFile(filepath.Join(dir, "max_brightness"))
		if err != nil || maxBrightness == 0 {
			return fmt.Errorf("read max_brightness: %w", err)
		}
		percent := float64(brightness) / float64(maxBrightness) * 100
		w.Update(protocol.State{FullText: fmt.Sprintf("BL %.0f%%", percent)})
		return nil
	}
	return w
}

// firstEntry returns the lexically first directory entry, or "" when the
// directory is empty or unreadable. The resulting dangling path makes the
// watcher freeze with its file-not-found message.
func firstEntry(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return ""
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names[0]
}
