// Package theme holds the color policy: only abnormal (warn/danger) states
// get a color, normal blocks omit the Color field so the bar theme handles
// appearance.
package theme

type Palette struct {
	Warn   string
	Danger string
}

var DefaultPalette = Palette{
	Warn:   "#d08770", // orange
	Danger: "#bf616a", // red
}

// Current holds the active palette. Apply swaps entries at startup, before
// any block runs; it is not safe to call concurrently with ColorFor.
var Current = DefaultPalette

// Apply overrides palette entries with non-empty values from config.
func Apply(warn, danger string) {
	if warn != "" {
		Current.Warn = warn
	}
	if danger != "" {
		Current.Danger = danger
	}
}

type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarn
	SeverityDanger
)

// ColorFor returns the hex color and true if severity maps to a color.
func ColorFor(sev Severity) (string, bool) {
	switch sev {
	case SeverityWarn:
		return Current.Warn, true
	case SeverityDanger:
		return Current.Danger, true
	default:
		return "", false
	}
}

// ForPercent maps a percentage against warn/danger thresholds.
func ForPercent(percent, warn, danger float64) Severity {
	switch {
	case percent >= danger:
		return SeverityDanger
	case percent >= warn:
		return SeverityWarn
	default:
		return SeverityNormal
	}
}
