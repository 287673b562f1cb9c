package theme

import "testing"

func TestForPercent(t *testing.T) {
	tests := []struct {
		percent float64
		want    Severity
	}{
		{0, SeverityNormal},
		{69.9, SeverityNormal},
		{70, SeverityWarn},
		{89.9, SeverityWarn},
		{90, SeverityDanger},
		{100, SeverityDanger},
	}
	for _, tc := range tests {
		if got := ForPercent(tc.percent, 70, 90); got != tc.want {
			t.Errorf("ForPercent(%v) = %v, want %v", tc.percent, got, tc.want)
		}
	}
}

func TestColorFor(t *testing.T) {
	if _, ok := ColorFor(SeverityNormal); ok {
		t.Error("normal severity must not carry a color")
	}
	if c, ok := ColorFor(SeverityWarn); !ok || c != Current.Warn {
		t.Errorf("warn color = %q, %v", c, ok)
	}
	if c, ok := ColorFor(SeverityDanger); !ok || c != Current.Danger {
		t.Errorf("danger color = %q, %v", c, ok)
	}
}

func TestApplyOverridesNonEmpty(t *testing.T) {
	defer func() { Current = DefaultPalette }()

	Apply("#ebcb8b", "")
	if Current.Warn != "#ebcb8b" {
		t.Errorf("warn = %q", Current.Warn)
	}
	if Current.Danger != DefaultPalette.Danger {
		t.Errorf("danger changed to %q", Current.Danger)
	}
}
