package power

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"autosleep/internal/logging"
)

// CommandPower implements Interface by executing configured shell command
// templates (e.g. "systemctl suspend", an rtcwake invocation).
type CommandPower struct {
	logger     *logging.Logger
	suspendCmd string
	wakeupCmd  string
	cancelCmd  string
}

// NewCommandPower creates a command-template backed power implementation.
// wakeupCmd and cancelCmd may be empty; scheduling without a wakeup command
// fails, cancelling without a cancel command is a no-op.
func NewCommandPower(logger *logging.Logger, suspendCmd, wakeupCmd, cancelCmd string) *CommandPower {
	return &CommandPower{
		logger:     logger,
		suspendCmd: suspendCmd,
		wakeupCmd:  wakeupCmd,
		cancelCmd:  cancelCmd,
	}
}

// Suspend executes the suspend command and blocks until it returns, which on
// a real system is after resume.
func (p *CommandPower) Suspend(ctx context.Context) error {
	p.logger.Info("power.suspend.requested", "Executing suspend command", map[string]interface{}{
		"command": p.suspendCmd,
	})

	if err := RunCommand(ctx, p.suspendCmd); err != nil {
		return &SuspendError{Err: err}
	}

	p.logger.Info("power.suspend.done", "Suspend command returned", nil)
	return nil
}

// ScheduleWake programs the wake alarm by executing the wakeup command
// template with the target time substituted
func (p *CommandPower) ScheduleWake(ctx context.Context, at time.Time) error {
	if p.wakeupCmd == "" {
		return &WakeScheduleError{Err: errors.New("no wakeup_cmd configured")}
	}

	command := ExpandTemplate(p.wakeupCmd, at)
	p.logger.Info("power.wake.scheduled", "Programming wake alarm", map[string]interface{}{
		"wake_at": at.UTC().Format(time.RFC3339),
		"command": command,
	})

	if err := RunCommand(ctx, command); err != nil {
		return &WakeScheduleError{Err: err}
	}
	return nil
}

// CancelWake clears the wake alarm. Without a configured cancel command this
// is a no-op.
func (p *CommandPower) CancelWake(ctx context.Context) error {
	if p.cancelCmd == "" {
		p.logger.Debug("power.wake.cancel_skipped", "No wakeup_cancel_cmd configured", nil)
		return nil
	}

	p.logger.Info("power.wake.cancelled", "Clearing wake alarm", map[string]interface{}{
		"command": p.cancelCmd,
	})

	if err := RunCommand(ctx, p.cancelCmd); err != nil {
		return &WakeCancelError{Err: err}
	}
	return nil
}

// RunCommand executes a shell command and returns an error carrying the
// combined output on failure
func RunCommand(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("command %q failed: %w (output: %s)", command, err, string(output))
	}
	return nil
}
