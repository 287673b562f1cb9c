package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"goblocks/protocol"
)

// listen consumes newline-delimited click events from the input stream and
// hands them to HandleClick. The bar frames events as a JSON array written
// over time, so the opening "[" and the comma separators are tolerated and
// stripped. A malformed record is logged and skipped; the listener only
// stops at EOF.
func (r *Runner) listen(ctx context.Context) {
	sc := bufio.NewScanner(r.in)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		line = bytes.TrimPrefix(line, []byte("["))
		line = bytes.TrimPrefix(line, []byte(","))
		line = bytes.TrimSuffix(line, []byte(","))
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var ev protocol.Click
		if err := json.Unmarshal(line, &ev); err != nil {
			r.log.Warn("click event parse", zap.Error(err),
				zap.ByteString("line", line))
			continue
		}
		// One goroutine per event: a block whose handler hangs must not
		// stop routing for the others.
		go r.HandleClick(ctx, ev)
	}
	if err := sc.Err(); err != nil {
		r.log.Warn("click event scanner", zap.Error(err))
	}
}
