package blocks

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"goblocks/config"
	"goblocks/protocol"
)

// NetworkBlock shows receive/transmit rates for one interface, computed from
// /proc/net/dev byte-counter deltas. Without a configured interface it picks
// the first one that is up and not loopback, re-evaluating each poll so the
// display follows wifi/ethernet switches.
type NetworkBlock struct {
	PollingBlock

	iface string // configured; empty means auto

	mu       sync.Mutex
	lastName string
	prevRx   uint64
	prevTx   uint64
	prevAt   time.Time
}

func NewNetwork(cfg config.NetModule) *NetworkBlock {
	n := &NetworkBlock{iface: cfg.Interface}
	n.PollingBlock = PollingBlock{
		Base:     NewBase("net", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     n.poll,
	}
	return n
}

func (n *NetworkBlock) poll(context.Context) error {
	counters, err := readNetDev("/proc/net/dev")
	if err != nil {
		return fmt.Errorf("read net counters: %w", err)
	}

	name := n.iface
	if name == "" {
		name = pickInterface(counters)
	}
	c, ok := counters[name]
	if !ok || name == "" {
		n.Update(protocol.State{FullText: "NET down"})
		return nil
	}

	rxRate, txRate := n.rates(name, c, time.Now())

	n.Update(protocol.State{
		FullText:  fmt.Sprintf("%s ↓%s/s ↑%s/s", name, humanBytes(uint64(rxRate)), humanBytes(uint64(txRate))),
		ShortText: name,
	})
	return nil
}

// rates converts counter deltas since the previous sample into bytes per
// second. The first sample for an interface is a baseline and reports zero,
// as does a counter decrease (driver reload or interface re-creation resets
// the kernel counters).
func (n *NetworkBlock) rates(name string, c netCounters, now time.Time) (rx, tx float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lastName == name && !n.prevAt.IsZero() && c.rx >= n.prevRx && c.tx >= n.prevTx {
		dt := now.Sub(n.prevAt).Seconds()
		if dt > 0 {
			rx = float64(c.rx-n.prevRx) / dt
			tx = float64(c.tx-n.prevTx) / dt
		}
	}
	n.lastName = name
	n.prevRx = c.rx
	n.prevTx = c.tx
	n.prevAt = now
	return rx, tx
}

type netCounters struct {
	rx uint64
	tx uint64
}

func readNetDev(path string) (map[string]netCounters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := map[string]netCounters{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		name, rest, found := strings.Cut(line, ":")
		if !found {
			continue // header lines
		}
		fields := strings.Fields(rest)
		if len(fields) < 9 {
			continue
		}
		rx, err1 := strconv.ParseUint(fields[0], 10, 64)
		tx, err2 := strconv.ParseUint(fields[8], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out[strings.TrimSpace(name)] = netCounters{rx: rx, tx: tx}
	}
	return out, sc.Err()
}

// pickInterface returns the first non-loopback interface whose operstate is
// "up", or "" when none qualifies.
func pickInterface(counters map[string]netCounters) string {
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "lo" {
			continue
		}
		state, err := os.ReadFile("/sys/class/net/" + name + "/operstate")
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(state)) == "up" {
			return name
		}
	}
	return ""
}
