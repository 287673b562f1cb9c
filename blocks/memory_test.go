package blocks

import "testing"

func TestReadMemInfo(t *testing.T) {
	path := writeFixture(t, "meminfo", `MemTotal:       1000 kB
MemFree:         100 kB
MemAvailable:    400 kB
Buffers:          50 kB
Cached:           50 kB
SwapTotal:         0 kB
`)
	info, err := readMemInfo(path)
	if err != nil {
		t.Fatalf("readMemInfo: %v", err)
	}
	if info.total != 1000*1024 {
		t.Errorf("total = %d", info.total)
	}
	if info.available != 400*1024 {
		t.Errorf("available = %d", info.available)
	}
	if info.used != 600*1024 {
		t.Errorf("used = %d", info.used)
	}
	if info.percent != 60 {
		t.Errorf("percent = %v, want 60", info.percent)
	}
}

func TestReadMemInfoFallsBackWithoutMemAvailable(t *testing.T) {
	path := writeFixture(t, "meminfo", `MemTotal:       1000 kB
MemFree:         100 kB
Buffers:          50 kB
Cached:           50 kB
`)
	info, err := readMemInfo(path)
	if err != nil {
		t.Fatalf("readMemInfo: %v", err)
	}
	if info.available != 200*1024 {
		t.Errorf("available = %d, want %d", info.available, 200*1024)
	}
}

func TestReadMemInfoRequiresTotal(t *testing.T) {
	path := writeFixture(t, "meminfo", "MemFree: 100 kB\n")
	if _, err := readMemInfo(path); err == nil {
		t.Error("expected error without MemTotal")
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0B"},
		{512, "512B"},
		{1536, "1.5KiB"},
		{2048, "2.0KiB"},
		{10 * 1024 * 1024, "10MiB"},
		{5 * 1024 * 1024 * 1024, "5.0GiB"},
	}
	for _, tc := range tests {
		if got := humanBytes(tc.in); got != tc.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
