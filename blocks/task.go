package blocks

import (
	"context"
	"os"

	"goblocks/protocol"
)

// TaskBlock is the blocking-task variant, for bodies built around a foreign
// event loop or a library that blocks (a bus client, a long-lived
// subscription). The body still runs on its own goroutine like every block,
// so it cannot stall the runner; the contract difference is that click and
// signal events do nothing unless explicitly opted into, since re-entering a
// blocking body is rarely safe.
//
// Known limitation: cancellation is best effort. A body parked in a syscall
// that ignores ctx is only reclaimed at process exit.
type TaskBlock struct {
	Base

	// Task is the blocking main body.
	Task func(ctx context.Context) error

	// OnClick, if set, handles click events. Nil means clicks are ignored.
	OnClick func(ctx context.Context, ev protocol.Click) error

	// OnSignal, if set, handles bound OS signals. Nil means signals are
	// ignored.
	OnSignal func(ctx context.Context, sig os.Signal) error
}

func (t *TaskBlock) Run(ctx context.Context) error {
	return t.Task(ctx)
}

func (t *TaskBlock) Click(ctx context.Context, ev protocol.Click) error {
	if t.OnClick == nil {
		return nil
	}
	return t.OnClick(ctx, ev)
}

func (t *TaskBlock) Signal(ctx context.Context, sig os.Signal) error {
	if t.OnSignal == nil {
		return nil
	}
	return t.OnSignal(ctx, sig)
}
