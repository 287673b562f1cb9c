package core

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"goblocks/protocol"
)

// Writer emits the bar protocol on an output stream: one header line, a
// literal "[" opening an endless JSON array, then one "[...]," row per
// flush. Rows from the heartbeat and from on-demand flushes may interleave;
// the mutex keeps each line whole.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

type flusher interface {
	Flush() error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the protocol header and the array opener.
func (w *Writer) WriteHeader(h protocol.Header) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.w, "%s\n[\n", data); err != nil {
		return err
	}
	return w.flushLocked()
}

// WriteRow writes one snapshot of all block states as a comma-terminated
// JSON array line, flushing immediately so the bar redraws without delay.
func (w *Writer) WriteRow(states []protocol.State) error {
	if states == nil {
		states = []protocol.State{}
	}
	data, err := json.Marshal(states)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.w, "%s,\n", data); err != nil {
		return err
	}
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if f, ok := w.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
