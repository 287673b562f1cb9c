// Package core implements the update-coordination engine: the Runner owns
// the block registry, collects state updates from every live block over one
// channel, flushes combined snapshots to the output stream on a heartbeat or
// on demand, and routes click and signal events back to the originating
// block. A crash or hang inside one block never takes down the bar.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/creachadair/taskgroup"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"goblocks/blocks"
	"goblocks/protocol"
)

const updateBuffer = 64

// Runner multiplexes N concurrently-updating blocks into one protocol
// stream. Construct with New, add blocks with Register, then call Run.
type Runner struct {
	log      *zap.Logger
	out      *Writer
	in       io.Reader
	interval time.Duration

	updates chan blocks.Update
	flushc  chan struct{}

	mu     sync.RWMutex
	order  []uuid.UUID
	byID   map[uuid.UUID]blocks.Block
	states map[uuid.UUID]protocol.State
	regs   []registration
}

type registration struct {
	block   blocks.Block
	signals []os.Signal
}

// New creates a Runner writing the protocol to out and reading click events
// from in. interval is the heartbeat between unconditional flushes; values
// <= 0 fall back to one second. A nil logger is replaced with a nop one.
func New(out io.Writer, in io.Reader, interval time.Duration, log *zap.Logger) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		log:      log,
		out:      NewWriter(out),
		in:       in,
		interval: interval,
		updates:  make(chan blocks.Update, updateBuffer),
		flushc:   make(chan struct{}, 1),
		byID:     map[uuid.UUID]blocks.Block{},
		states:   map[uuid.UUID]protocol.State{},
	}
}

// Register adds a block to the registry and wires it to this Runner's update
// channel. Output position follows registration order for the process
// lifetime. Optional signals are bound to the block: each receipt invokes
// the block's signal handler and then an immediate flush. Register must be
// called before Run.
func (r *Runner) Register(b blocks.Block, signals ...os.Signal) {
	b.Setup(blocks.Sink{
		Updates:      r.updates,
		RequestFlush: r.requestFlush,
		Logger:       r.log,
	})
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, b.ID())
	r.byID[b.ID()] = b
	r.states[b.ID()] = b.Result()
	r.regs = append(r.regs, registration{block: b, signals: signals})
	r.log.Debug("registered block",
		zap.String("block", b.Name()), zap.Stringer("id", b.ID()))
}

// Run writes the protocol preamble and drives everything until ctx is done
// or writing to the output stream fails. Output failure is fatal: the stream
// is the program's entire reason to exist. Errors inside individual blocks
// are contained and never returned from here.
//
// Run returns once ctx is cancelled even if some block body is stuck in an
// uninterruptible call; such goroutines are reclaimed at process exit.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.out.WriteHeader(protocol.Header{Version: 1, ClickEvents: true}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fatal := make(chan error, 1)
	var g taskgroup.Group

	g.Go(func() error {
		r.collect(ctx)
		return nil
	})
	g.Go(func() error {
		if err := r.flushLoop(ctx); err != nil {
			select {
			case fatal <- err:
			default:
			}
			cancel()
		}
		return nil
	})

	r.mu.RLock()
	regs := make([]registration, len(r.regs))
	copy(regs, r.regs)
	r.mu.RUnlock()

	for _, reg := range regs {
		reg := reg
		g.Go(func() error {
			r.runBlock(ctx, reg.block)
			return nil
		})
		if len(reg.signals) > 0 {
			g.Go(func() error {
				r.routeSignals(ctx, reg.block, reg.signals)
				return nil
			})
		}
	}

	if r.in != nil {
		// Not part of the group: a blocking stdin read has no portable
		// cancellation and must not hold up shutdown.
		go r.listen(ctx)
	}

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	select {
	case err := <-fatal:
		return err
	default:
		return nil
	}
}

// collect receives block updates, stores the latest state per identity, and
// asks for a flush. The channel is drained before flushing to coalesce
// bursts into a single redraw.
func (r *Runner) collect(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-r.updates:
			r.apply(u)
		drained:
			for {
				select {
				case u := <-r.updates:
					r.apply(u)
				default:
					break drained
				}
			}
			r.requestFlush()
		}
	}
}

func (r *Runner) apply(u blocks.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[u.ID]; !ok {
		r.log.Debug("update from unknown block", zap.Stringer("id", u.ID))
		return
	}
	r.states[u.ID] = u.State
}

// requestFlush schedules an immediate flush without blocking; a flush
// already pending covers this request too.
func (r *Runner) requestFlush() {
	select {
	case r.flushc <- struct{}{}:
	default:
	}
}

// flushLoop writes a snapshot on every heartbeat tick, whether or not
// anything changed, and on every on-demand request.
func (r *Runner) flushLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-r.flushc:
		}
		if err := r.Flush(); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
}

// Flush serializes the registry snapshot in registration order. Blocks whose
// merged FullText is empty are omitted. Flush only reads cached state and
// never calls into a block.
func (r *Runner) Flush() error {
	r.mu.RLock()
	row := make([]protocol.State, 0, len(r.order))
	for _, id := range r.order {
		st := r.states[id]
		if st.FullText == "" {
			continue
		}
		row = append(row, st)
	}
	r.mu.RUnlock()
	return r.out.WriteRow(row)
}

// runBlock runs one block body to completion, containing any failure to
// that block: on error or panic the block is frozen showing the error text,
// urgent, and every other block keeps running.
func (r *Runner) runBlock(ctx context.Context, b blocks.Block) {
	defer func() {
		if v := recover(); v != nil {
			r.freeze(b, fmt.Errorf("panic: %v", v))
		}
	}()
	err := b.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	default:
		r.freeze(b, err)
	}
}

func (r *Runner) freeze(b blocks.Block, err error) {
	r.log.Error("block failed",
		zap.String("block", b.Name()), zap.Stringer("id", b.ID()), zap.Error(err))
	b.Abort(protocol.State{
		FullText: fmt.Sprintf("Exception in %s: %v", b.Name(), err),
		Urgent:   protocol.Bool(true),
	})
	// Apply directly as well: the final update must land even if the
	// channel push was dropped.
	r.apply(blocks.Update{ID: b.ID(), State: b.Result()})
	r.requestFlush()
}

// HandleClick routes a decoded click event to the block owning the target
// instance and flushes afterwards. Unknown instances are ignored. Handler
// errors and panics are logged and non-fatal; the flush happens regardless.
func (r *Runner) HandleClick(ctx context.Context, ev protocol.Click) {
	id, err := uuid.Parse(ev.Instance)
	if err != nil {
		r.log.Debug("click event with invalid instance",
			zap.String("instance", ev.Instance))
		return
	}
	r.mu.RLock()
	b, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		r.log.Debug("click event for unknown instance", zap.Stringer("id", id))
		return
	}
	func() {
		defer func() {
			if v := recover(); v != nil {
				r.log.Error("click handler panicked",
					zap.String("block", b.Name()), zap.Any("panic", v))
			}
		}()
		if err := b.Click(ctx, ev); err != nil {
			r.log.Warn("click handler failed",
				zap.String("block", b.Name()), zap.Error(err))
		}
	}()
	r.requestFlush()
}

// routeSignals delivers the bound OS signals to one block, flushing after
// each delivery.
func (r *Runner) routeSignals(ctx context.Context, b blocks.Block, sigs []os.Signal) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, sigs...)
	defer signal.Stop(sigc)
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigc:
			func() {
				defer func() {
					if v := recover(); v != nil {
						r.log.Error("signal handler panicked",
							zap.String("block", b.Name()), zap.Any("panic", v))
					}
				}()
				if err := b.Signal(ctx, sig); err != nil {
					r.log.Warn("signal handler failed",
						zap.String("block", b.Name()), zap.Error(err))
				}
			}()
			r.requestFlush()
		}
	}
}
