// Package checks provides the built-in check implementations and the default
// registry binding them to their configuration type names.
package checks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"autosleep/internal/check"
)

// CommandCheck reports activity based on an external command's exit status:
// status 0 means active.
type CommandCheck struct {
	name    string
	command string
}

// NewCommandCheck constructs a command activity check. Required option:
// command.
func NewCommandCheck(name string, opts check.Options) (check.Activity, error) {
	command, err := opts.RequiredString("command")
	if err != nil {
		return nil, err
	}
	return &CommandCheck{name: name, command: command}, nil
}

// Name returns the configured section name
func (c *CommandCheck) Name() string { return c.name }

// Check runs the command; exit status 0 means active, any non-zero exit means
// inactive. Failures to execute at all are evaluation errors.
func (c *CommandCheck) Check(ctx context.Context) (check.Result, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", c.command)
	err := cmd.Run()
	if err == nil {
		return check.Result{Active: true, Reason: fmt.Sprintf("command %q succeeded", c.command)}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return check.Result{}, nil
	}

	return check.Result{}, fmt.Errorf("failed to run command %q: %w", c.command, err)
}

// CommandWakeup obtains the next wake time from an external command's stdout.
// Empty output means no opinion.
type CommandWakeup struct {
	name    string
	command string
}

// NewCommandWakeup constructs a command wakeup check. Required option:
// command.
func NewCommandWakeup(name string, opts check.Options) (check.Wakeup, error) {
	command, err := opts.RequiredString("command")
	if err != nil {
		return nil, err
	}
	return &CommandWakeup{name: name, command: command}, nil
}

// Name returns the configured section name
func (c *CommandWakeup) Name() string { return c.name }

// NextWakeup runs the command and parses its first output line as a
// timestamp (unix seconds or RFC 3339)
func (c *CommandWakeup) NextWakeup(ctx context.Context, _ time.Time) (time.Time, bool, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", c.command)
	output, err := cmd.Output()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to run command %q: %w", c.command, err)
	}

	text := strings.TrimSpace(string(output))
	if text == "" {
		return time.Time{}, false, nil
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}

	at, err := ParseTimestamp(text)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("command %q produced %w", c.command, err)
	}
	return at, true, nil
}
