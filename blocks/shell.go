package blocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"goblocks/config"
	"goblocks/protocol"
	"goblocks/theme"
)

// ShellBlock periodically runs a command through the shell and shows its
// stdout. Mouse buttons can be mapped to extra commands (volume up/down,
// layout switch, ...); after a mapped command runs the block refreshes.
// A non-zero exit status colors the output as danger but does not freeze
// the block.
type ShellBlock struct {
	PollingBlock

	command  string
	timeout  time.Duration
	onButton map[int]string
}

func NewShell(cfg config.ShellModule) *ShellBlock {
	s := &ShellBlock{
		command: cfg.Command,
		timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		onButton: map[int]string{
			protocol.ButtonLeft:       cfg.OnLeft,
			protocol.ButtonMiddle:     cfg.OnMiddle,
			protocol.ButtonRight:      cfg.OnRight,
			protocol.ButtonScrollUp:   cfg.OnScrollUp,
			protocol.ButtonScrollDown: cfg.OnScrollDn,
		},
	}
	s.PollingBlock = PollingBlock{
		Base:     NewBase("shell", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     s.poll,
	}
	return s
}

func (s *ShellBlock) poll(ctx context.Context) error {
	res, err := runShell(ctx, s.timeout, s.command)
	if err != nil {
		return fmt.Errorf("run %q: %w", s.command, err)
	}
	st := protocol.State{FullText: strings.TrimSpace(res.stdout)}
	if res.code != 0 {
		if color, ok := theme.ColorFor(theme.SeverityDanger); ok {
			st.Color = color
		}
	}
	s.Update(st)
	return nil
}

func (s *ShellBlock) Click(ctx context.Context, ev protocol.Click) error {
	if cmd := s.onButton[ev.Button]; cmd != "" {
		if _, err := runShell(ctx, s.timeout, cmd); err != nil {
			return fmt.Errorf("run %q: %w", cmd, err)
		}
	}
	return s.poll(ctx)
}

// ToggleBlock renders an on/off state decided by a command's stdout: any
// output means ON, empty means OFF. A left click runs the opposite
// transition command and refreshes.
type ToggleBlock struct {
	PollingBlock

	commandState string
	commandOn    string
	commandOff   string
	formatOn     string
	formatOff    string
	timeout      time.Duration
}

func NewToggle(cfg config.ToggleModule) *ToggleBlock {
	t := &ToggleBlock{
		commandState: cfg.CommandState,
		commandOn:    cfg.CommandOn,
		commandOff:   cfg.CommandOff,
		formatOn:     cfg.FormatOn,
		formatOff:    cfg.FormatOff,
		timeout:      10 * time.Second,
	}
	t.PollingBlock = PollingBlock{
		Base:     NewBase("toggle", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     t.poll,
	}
	return t
}

func (t *ToggleBlock) on(ctx context.Context) (bool, error) {
	res, err := runShell(ctx, t.timeout, t.commandState)
	if err != nil {
		return false, fmt.Errorf("run %q: %w", t.commandState, err)
	}
	return strings.TrimSpace(res.stdout) != "", nil
}

func (t *ToggleBlock) poll(ctx context.Context) error {
	on, err := t.on(ctx)
	if err != nil {
		return err
	}
	text := t.formatOff
	if on {
		text = t.formatOn
	}
	t.Update(protocol.State{FullText: text})
	return nil
}

func (t *ToggleBlock) Click(ctx context.Context, ev protocol.Click) error {
	if ev.Button == protocol.ButtonLeft {
		on, err := t.on(ctx)
		if err != nil {
			return err
		}
		cmd := t.commandOn
		if on {
			cmd = t.commandOff
		}
		if cmd != "" {
			if _, err := runShell(ctx, t.timeout, cmd); err != nil {
				return fmt.Errorf("run %q: %w", cmd, err)
			}
		}
	}
	return t.poll(ctx)
}

type shellResult struct {
	stdout string
	stderr string
	code   int
}

// runShell executes command via "sh -c" with a per-call timeout, capturing
// stdout, stderr and the exit code. A non-zero exit is a result, not an
// error; errors mean the process could not run at all.
func runShell(ctx context.Context, timeout time.Duration, command string) (shellResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	res := shellResult{stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.code = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}
