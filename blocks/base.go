package blocks

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goblocks/protocol"
)

// Sink is a block's view of its runner: the update channel plus an explicit
// flush-request, both owned by the runner instance so independent runners
// (and their tests) never share state.
type Sink struct {
	// Updates receives (identity, merged state) events.
	Updates chan<- Update

	// RequestFlush asks the runner for an immediate flush without waiting
	// for the periodic tick. May be nil; Base.RequestFlush guards that.
	RequestFlush func()

	// Logger for the block. Nil is replaced with a nop logger in Setup.
	Logger *zap.Logger
}

// Base carries the state machine shared by every block variant: identity,
// the default/current state pair, and the frozen flag. Concrete blocks embed
// it and call Update or Abort from their bodies.
//
// A block is single-writer for its own state, but Update can race with the
// runner's click path and Result with a flush, so the cells sit behind one
// mutex.
type Base struct {
	id   uuid.UUID
	name string

	mu       sync.Mutex
	defaults protocol.State
	current  protocol.State
	frozen   bool
	running  bool
	sink     Sink
	log      *zap.Logger
}

// NewBase constructs the shared state for a block. The default state is set
// once here and acts as the fallback layer under every later update; name
// and the generated identity are stamped into it.
func NewBase(name string, defaults protocol.State) Base {
	id := uuid.New()
	defaults.Name = name
	defaults.Instance = id.String()
	return Base{
		id:       id,
		name:     name,
		defaults: defaults,
		log:      zap.NewNop(),
	}
}

func (b *Base) ID() uuid.UUID { return b.id }

func (b *Base) Name() string { return b.name }

// Setup wires the block to its runner and transitions uninitialized to
// running.
func (b *Base) Setup(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	b.sink = s
	b.log = s.Logger.With(zap.String("block", b.name), zap.Stringer("id", b.id))
	b.running = true
}

// Logger returns the block's logger (nop before Setup).
func (b *Base) Logger() *zap.Logger {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.log
}

// Frozen reports whether Abort has been called.
func (b *Base) Frozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

// Result returns the merged default + current state.
func (b *Base) Result() protocol.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return protocol.Merge(b.defaults, b.current)
}

// Update replaces the current state with st and pushes the merged record to
// the runner. The whole current layer is replaced, so an Update with a zero
// State resets FullText to empty while the default layer persists. Frozen or
// uninitialized blocks drop the update with a diagnostic.
func (b *Base) Update(st protocol.State) {
	b.mu.Lock()
	if b.frozen || !b.running {
		log := b.log
		b.mu.Unlock()
		log.Debug("dropping update on frozen or uninitialized block")
		return
	}
	b.current = st
	merged := protocol.Merge(b.defaults, b.current)
	sink := b.sink
	id := b.id
	log := b.log
	b.mu.Unlock()

	if sink.Updates == nil {
		return
	}
	select {
	case sink.Updates <- Update{ID: id, State: merged}:
	default:
		// Runner is behind; the next heartbeat reads the registry anyway.
		log.Debug("update channel full, dropping push")
	}
}

// Abort performs one final Update then freezes the block. No later Update
// changes the state again.
func (b *Base) Abort(st protocol.State) {
	b.Update(st)
	b.mu.Lock()
	b.frozen = true
	b.mu.Unlock()
}

// RequestFlush asks the runner for an immediate flush, if wired.
func (b *Base) RequestFlush() {
	b.mu.Lock()
	fn := b.sink.RequestFlush
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}
