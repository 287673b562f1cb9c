package blocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"goblocks/config"
	"goblocks/protocol"
)

const (
	mprisPrefix    = "org.mpris.MediaPlayer2."
	mprisPath      = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisInterface = "org.mpris.MediaPlayer2.Player"
)

// PlayerBlock shows the playback state of an MPRIS media player over the
// D-Bus session bus. It subscribes to PropertiesChanged so updates arrive
// as events rather than polls, and a click toggles play/pause. The bus
// client keeps its own blocking receive loop, hence the blocking-task
// variant. A missing session bus or player freezes the block with a
// descriptive message rather than failing the bar.
type PlayerBlock struct {
	TaskBlock

	player string // bus-name suffix filter; empty matches any player

	mu   sync.Mutex
	conn *dbus.Conn
	dest string
}

func NewPlayer(cfg config.PlayerModule) *PlayerBlock {
	p := &PlayerBlock{player: cfg.Player}
	p.TaskBlock = TaskBlock{
		Base:    NewBase("player", barDefaults()),
		Task:    p.run,
		OnClick: p.click,
	}
	return p
}

func (p *PlayerBlock) run(ctx context.Context) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		p.Abort(protocol.State{FullText: "D-Bus not found"})
		return nil
	}

	dest, err := findPlayer(conn, p.player)
	if err != nil {
		p.Abort(protocol.State{FullText: fmt.Sprintf("Player not found %s", p.player)})
		return nil
	}
	p.mu.Lock()
	p.conn = conn
	p.dest = dest
	p.mu.Unlock()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("subscribe to player properties: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	if err := p.refresh(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-signals:
			if !ok {
				return nil // bus connection closed
			}
			if err := p.refresh(); err != nil {
				return err
			}
		}
	}
}

// refresh reads PlaybackStatus and Metadata and updates the block state.
func (p *PlayerBlock) refresh() error {
	p.mu.Lock()
	conn, dest := p.conn, p.dest
	p.mu.Unlock()

	obj := conn.Object(dest, mprisPath)
	statusVar, err := obj.GetProperty(mprisInterface + ".PlaybackStatus")
	if err != nil {
		return fmt.Errorf("get playback status: %w", err)
	}
	status, _ := statusVar.Value().(string)

	icon := "⏹"
	switch status {
	case "Playing":
		icon = "▶"
	case "Paused":
		icon = "⏸"
	}

	track := ""
	if metaVar, err := obj.GetProperty(mprisInterface + ".Metadata"); err == nil {
		if meta, ok := metaVar.Value().(map[string]dbus.Variant); ok {
			track = formatTrack(meta)
		}
	}

	text := icon
	if track != "" {
		text = fmt.Sprintf("%s %s", icon, track)
	}
	p.Update(protocol.State{FullText: text, ShortText: icon})
	return nil
}

func (p *PlayerBlock) click(ctx context.Context, ev protocol.Click) error {
	if ev.Button != protocol.ButtonLeft {
		return nil
	}
	p.mu.Lock()
	conn, dest := p.conn, p.dest
	p.mu.Unlock()
	if conn == nil {
		return nil
	}
	call := conn.Object(dest, mprisPath).CallWithContext(ctx, mprisInterface+".PlayPause", 0)
	if call.Err != nil {
		return fmt.Errorf("play/pause: %w", call.Err)
	}
	return nil
}

// findPlayer returns the first MPRIS bus name, optionally filtered by
// suffix (e.g. "spotify").
func findPlayer(conn *dbus.Conn, suffix string) (string, error) {
	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return "", fmt.Errorf("list bus names: %w", err)
	}
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		if suffix == "" || strings.HasSuffix(name, suffix) {
			return name, nil
		}
	}
	return "", fmt.Errorf("no MPRIS player on bus")
}

func formatTrack(meta map[string]dbus.Variant) string {
	title, _ := meta["xesam:title"].Value().(string)
	var artist string
	if artists, ok := meta["xesam:artist"].Value().([]string); ok && len(artists) > 0 {
		artist = artists[0]
	}
	switch {
	case title != "" && artist != "":
		return fmt.Sprintf("%s - %s", artist, title)
	case title != "":
		return title
	default:
		return ""
	}
}
