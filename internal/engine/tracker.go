package engine

import "time"

// Clock returns the current time. Injectable so the state machine can be
// driven deterministically in tests.
type Clock func() time.Time

// State is the idle tracker state
type State string

const (
	// StateActive means the idle duration is below the threshold
	StateActive State = "ACTIVE"

	// StateIdleConfirmed means the idle duration reached the threshold and a
	// suspend is authorized
	StateIdleConfirmed State = "IDLE_CONFIRMED"
)

// Tracker is the idle-tracking state machine. It owns the only cross-cycle
// mutable state of the engine: the last-active timestamp.
type Tracker struct {
	lastActiveAt time.Time
	threshold    time.Duration
	state        State
}

// NewTracker creates a tracker in StateActive with lastActiveAt set to now.
// A freshly started daemon therefore observes at least one full idle
// threshold before its first suspend (startup grace period).
func NewTracker(threshold time.Duration, now time.Time) *Tracker {
	return &Tracker{
		lastActiveAt: now,
		threshold:    threshold,
		state:        StateActive,
	}
}

// Update advances the state machine for one tick. Any activity resets the
// last-active timestamp; otherwise the tracker confirms idleness once
// now - lastActiveAt reaches the threshold.
func (t *Tracker) Update(now time.Time, active bool) State {
	if active {
		t.lastActiveAt = now
		t.state = StateActive
		return t.state
	}

	if now.Sub(t.lastActiveAt) >= t.threshold {
		t.state = StateIdleConfirmed
	} else {
		t.state = StateActive
	}
	return t.state
}

// MarkActive resets the last-active timestamp, e.g. after resuming from
// suspend so the daemon does not immediately re-suspend
func (t *Tracker) MarkActive(now time.Time) {
	t.lastActiveAt = now
	t.state = StateActive
}

// IdleFor returns the elapsed idle duration as of now
func (t *Tracker) IdleFor(now time.Time) time.Duration {
	return now.Sub(t.lastActiveAt)
}

// State returns the current state
func (t *Tracker) State() State {
	return t.state
}

// LastActiveAt returns the last-active timestamp
func (t *Tracker) LastActiveAt() time.Time {
	return t.lastActiveAt
}
