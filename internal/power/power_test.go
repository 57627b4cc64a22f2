package power

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"autosleep/internal/logging"
)

func TestExpandTemplate(t *testing.T) {
	at := time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)

	tests := []struct {
		template string
		want     string
	}{
		{"rtcwake -m no -t {timestamp}", "rtcwake -m no -t 1772346600"},
		{"notify-send 'up at {iso}'", "notify-send 'up at 2026-03-01T06:30:00Z'"},
		{"echo {timestamp} {iso}", "echo 1772346600 2026-03-01T06:30:00Z"},
		{"systemctl suspend", "systemctl suspend"},
	}

	for _, tt := range tests {
		if got := ExpandTemplate(tt.template, at); got != tt.want {
			t.Errorf("ExpandTemplate(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestCommandPower_SuspendFailure(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)
	p := NewCommandPower(logger, "exit 3", "", "")

	err := p.Suspend(context.Background())
	if err == nil {
		t.Fatal("Expected error from failing suspend command")
	}

	var suspendErr *SuspendError
	if !errors.As(err, &suspendErr) {
		t.Errorf("Expected SuspendError, got %T", err)
	}
}

func TestCommandPower_SuspendSuccess(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)
	p := NewCommandPower(logger, "true", "", "")

	if err := p.Suspend(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestCommandPower_ScheduleWithoutCommand(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)
	p := NewCommandPower(logger, "true", "", "")

	err := p.ScheduleWake(context.Background(), time.Now().Add(time.Hour))
	if err == nil {
		t.Fatal("Expected error when no wakeup_cmd is configured")
	}

	var schedErr *WakeScheduleError
	if !errors.As(err, &schedErr) {
		t.Errorf("Expected WakeScheduleError, got %T", err)
	}
}

func TestCommandPower_ScheduleExpandsTemplate(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)
	// The template fails unless substitution removed the placeholder
	p := NewCommandPower(logger, "true", "test {timestamp} -gt 0", "")

	if err := p.ScheduleWake(context.Background(), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestCommandPower_CancelWithoutCommandIsNoop(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)
	p := NewCommandPower(logger, "true", "", "")

	if err := p.CancelWake(context.Background()); err != nil {
		t.Fatalf("Expected no-op, got error: %v", err)
	}
}

func TestCommandPower_CancelFailure(t *testing.T) {
	logger := logging.NewLogger(logging.LevelError)
	p := NewCommandPower(logger, "true", "", "false")

	err := p.CancelWake(context.Background())
	if err == nil {
		t.Fatal("Expected error from failing cancel command")
	}

	var cancelErr *WakeCancelError
	if !errors.As(err, &cancelErr) {
		t.Errorf("Expected WakeCancelError, got %T", err)
	}
}

func TestRunCommand_IncludesOutput(t *testing.T) {
	err := RunCommand(context.Background(), "echo boom >&2; exit 1")
	if err == nil {
		t.Fatal("Expected error")
	}
	if got := err.Error(); !strings.Contains(got, "boom") {
		t.Errorf("Expected command output in error, got %q", got)
	}
}
