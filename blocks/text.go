package blocks

import (
	"context"

	"goblocks/config"
	"goblocks/protocol"
)

// NewText builds a block that shows a fixed string. It pushes once and is
// done; the registry keeps serving the cached state.
func NewText(cfg config.TextModule) *TaskBlock {
	t := &TaskBlock{
		Base: NewBase("text", barDefaults()),
	}
	t.Task = func(context.Context) error {
		t.Update(protocol.State{FullText: cfg.Text, Color: cfg.Color})
		return nil
	}
	return t
}
