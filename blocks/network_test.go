package blocks

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"goblocks/config"
)

func TestReadNetDev(t *testing.T) {
	path := writeFixture(t, "netdev", `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo:     100       2    0    0    0     0          0         0      200       2    0    0    0     0       0          0
  eth0:    1000      10    0    0    0     0          0         0     2000      20    0    0    0     0       0          0
`)
	got, err := readNetDev(path)
	if err != nil {
		t.Fatalf("readNetDev: %v", err)
	}
	want := map[string]netCounters{
		"lo":   {rx: 100, tx: 200},
		"eth0": {rx: 1000, tx: 2000},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(netCounters{})); diff != "" {
		t.Errorf("counters (-want +got):\n%s", diff)
	}
}

func TestRates(t *testing.T) {
	n := NewNetwork(config.NetModule{IntervalSec: 3})
	start := time.Now()

	// First sample is a baseline.
	rx, tx := n.rates("eth0", netCounters{rx: 1000, tx: 500}, start)
	if rx != 0 || tx != 0 {
		t.Errorf("baseline rates = %v/%v, want 0/0", rx, tx)
	}

	rx, tx = n.rates("eth0", netCounters{rx: 3000, tx: 1500}, start.Add(2*time.Second))
	if rx != 1000 || tx != 500 {
		t.Errorf("rates = %v/%v, want 1000/500", rx, tx)
	}

	// An interface switch starts a fresh baseline.
	rx, tx = n.rates("wlan0", netCounters{rx: 9000, tx: 9000}, start.Add(3*time.Second))
	if rx != 0 || tx != 0 {
		t.Errorf("rates after switch = %v/%v, want 0/0", rx, tx)
	}
}

func TestRatesCounterResetIsBaseline(t *testing.T) {
	n := NewNetwork(config.NetModule{IntervalSec: 3})
	start := time.Now()

	n.rates("eth0", netCounters{rx: 1 << 40, tx: 1 << 40}, start)

	// Counters went backwards: a driver reload zeroed them. The delta must
	// not underflow into an absurd rate.
	rx, tx := n.rates("eth0", netCounters{rx: 100, tx: 100}, start.Add(time.Second))
	if rx != 0 || tx != 0 {
		t.Errorf("rates after reset = %v/%v, want 0/0", rx, tx)
	}

	// And the reset values are the new baseline.
	rx, tx = n.rates("eth0", netCounters{rx: 300, tx: 200}, start.Add(2*time.Second))
	if rx != 200 || tx != 100 {
		t.Errorf("rates after rebaseline = %v/%v, want 200/100", rx, tx)
	}
}

func TestReadNetDevSkipsShortLines(t *testing.T) {
	path := writeFixture(t, "netdev", "eth0: 1 2 3\n")
	got, err := readNetDev(path)
	if err != nil {
		t.Fatalf("readNetDev: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("counters = %v, want none", got)
	}
}
