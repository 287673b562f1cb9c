// Package blocks defines the block abstraction: independently-updating units
// that each produce one segment of the status line. A block moves through
// three lifecycle states: uninitialized (constructed, no sink), running
// (after Setup), and frozen (after Abort, terminal). Three standard variants
// cover the catalog: PollingBlock (timer-driven), WatcherBlock
// (filesystem-event driven) and TaskBlock (a blocking body on its own
// goroutine).
package blocks

import (
	"context"
	"os"

	"github.com/google/uuid"

	"goblocks/protocol"
)

// Block is the capability set the runner requires of every block.
type Block interface {
	// ID is the process-unique identity token, stable for the block's
	// lifetime. It is the join key between click events, update events and
	// the runner's registry.
	ID() uuid.UUID

	// Name is the human-readable block name, used in logs and as the
	// protocol "name" field.
	Name() string

	// Setup hands the block its update sink and moves it from uninitialized
	// to running. Called exactly once, by the runner, before Run.
	Setup(Sink)

	// Run is the block's main body. It returns nil on a clean stop (context
	// cancelled, or a one-shot block that is done) and an error on
	// unrecoverable failure. The runner contains the error to this block.
	Run(ctx context.Context) error

	// Click is invoked for a click event addressed to this block's instance.
	// Errors are logged by the runner but are not fatal to the block.
	Click(ctx context.Context, ev protocol.Click) error

	// Signal is invoked when an OS signal bound to this block at
	// registration time is received. Same error contract as Click.
	Signal(ctx context.Context, sig os.Signal) error

	// Result returns the block's current merged (default + current) state.
	Result() protocol.State

	// Abort performs one final update then freezes the block. The runner
	// uses it to pin a failure message after containing a block error.
	Abort(protocol.State)

	// Frozen reports whether the block has been aborted.
	Frozen() bool
}

// Update is one (identity, merged state) event on the runner's update
// channel.
type Update struct {
	ID    uuid.UUID
	State protocol.State
}

// SeparatorWidth is the pixel gap after each catalog block.
const SeparatorWidth = 12

// barDefaults is the default-state layer shared by the catalog blocks.
func barDefaults() protocol.State {
	return protocol.State{
		Separator:           protocol.Bool(false),
		SeparatorBlockWidth: protocol.Int(SeparatorWidth),
	}
}
