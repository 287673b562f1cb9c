package core

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"goblocks/protocol"
)

func TestWriterFraming(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.WriteHeader(protocol.Header{Version: 1, ClickEvents: true}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := w.WriteRow([]protocol.State{{Name: "clock", FullText: "12:00"}}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := w.WriteRow(nil); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}

	want := `{"version":1,"click_events":true}` + "\n[\n" +
		`[{"name":"clock","full_text":"12:00"}],` + "\n" +
		"[],\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("stream (-want +got):\n%s", diff)
	}
}

type countingFlusher struct {
	bytes.Buffer
	flushes int
}

func (c *countingFlusher) Flush() error {
	c.flushes++
	return nil
}

func TestWriterFlushesEachLine(t *testing.T) {
	var out countingFlusher
	w := NewWriter(&out)

	if err := w.WriteHeader(protocol.Header{Version: 1}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := w.WriteRow(nil); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if out.flushes != 2 {
		t.Errorf("flushes = %d, want 2", out.flushes)
	}
}
