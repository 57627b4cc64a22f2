// Package power wraps the host's suspend and wake-alarm facilities behind a
// narrow interface. The real implementation shells out to operator-configured
// command templates; tests substitute a recorder.
package power

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interface is the set of system primitives the suspend controller invokes
type Interface interface {
	// Suspend puts the system to sleep and blocks until resume
	Suspend(ctx context.Context) error

	// ScheduleWake programs the wake alarm for the given time
	ScheduleWake(ctx context.Context, at time.Time) error

	// CancelWake clears a previously programmed wake alarm
	CancelWake(ctx context.Context) error
}

// SuspendError indicates the suspend primitive failed; the cycle is abandoned
// and polling continues.
type SuspendError struct {
	Err error
}

func (e *SuspendError) Error() string {
	return fmt.Sprintf("suspend failed: %v", e.Err)
}

func (e *SuspendError) Unwrap() error { return e.Err }

// WakeScheduleError indicates the wake alarm could not be programmed; the
// suspend sequence must abort before the sleep primitive runs.
type WakeScheduleError struct {
	Err error
}

func (e *WakeScheduleError) Error() string {
	return fmt.Sprintf("wake scheduling failed: %v", e.Err)
}

func (e *WakeScheduleError) Unwrap() error { return e.Err }

// WakeCancelError indicates a programmed wake alarm could not be cleared
type WakeCancelError struct {
	Err error
}

func (e *WakeCancelError) Error() string {
	return fmt.Sprintf("wake cancel failed: %v", e.Err)
}

func (e *WakeCancelError) Unwrap() error { return e.Err }

// ExpandTemplate substitutes {timestamp} (unix seconds) and {iso} (RFC 3339)
// in a command template with the wake time
func ExpandTemplate(command string, at time.Time) string {
	expanded := strings.ReplaceAll(command, "{timestamp}", strconv.FormatInt(at.Unix(), 10))
	return strings.ReplaceAll(expanded, "{iso}", at.UTC().Format(time.RFC3339))
}
