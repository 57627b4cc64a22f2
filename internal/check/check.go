// Package check defines the pluggable check abstraction: activity checks
// report whether the host is in use, wakeup checks report the next time it
// should be awake again. Concrete implementations live in internal/checks
// and are resolved through the Registry.
package check

import (
	"context"
	"time"
)

// Activity reports whether the host is currently in use.
type Activity interface {
	// Name returns the configured section name of this check instance
	Name() string

	// Check evaluates the check once. A non-nil error means the result is
	// unusable for this cycle; the caller applies the configured error policy.
	Check(ctx context.Context) (Result, error)
}

// Result is the outcome of one activity check evaluation
type Result struct {
	// Active is true when the check observed activity
	Active bool

	// Reason is a human-readable explanation, set when Active is true
	Reason string
}

// Wakeup reports the next known future time the host should be awake.
type Wakeup interface {
	// Name returns the configured section name of this check instance
	Name() string

	// NextWakeup returns the earliest future wake time this check knows of.
	// ok is false when the check has no opinion this cycle.
	NextWakeup(ctx context.Context, now time.Time) (at time.Time, ok bool, err error)
}

// ActivityEntry pairs a constructed activity check with its per-check policy
type ActivityEntry struct {
	Check Activity

	// OnErrorActive treats evaluation errors as activity instead of silence
	OnErrorActive bool

	// Timeout bounds a single evaluation
	Timeout time.Duration
}

// WakeupEntry pairs a constructed wakeup check with its evaluation timeout
type WakeupEntry struct {
	Check   Wakeup
	Timeout time.Duration
}
