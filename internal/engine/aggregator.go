package engine

import (
	"context"
	"time"

	"autosleep/internal/check"
	"autosleep/internal/logging"
)

// Aggregator combines candidate wake times from all wakeup checks into one
// decision. It is invoked only once the controller has decided to suspend;
// candidates are never persisted between cycles.
type Aggregator struct {
	logger   *logging.Logger
	minDelay time.Duration
	delta    time.Duration
}

// NewAggregator creates an aggregator. minDelay guards against alarms that
// would fire before suspend completes; delta moves the programmed alarm that
// far ahead of the earliest candidate.
func NewAggregator(logger *logging.Logger, minDelay, delta time.Duration) *Aggregator {
	return &Aggregator{
		logger:   logger,
		minDelay: minDelay,
		delta:    delta,
	}
}

// NextWakeup evaluates every wakeup check and returns the alarm time to
// program. ok is false when no candidate qualifies; the caller then suspends
// without a wake alarm. A failing check contributes no opinion, never an
// abort.
func (a *Aggregator) NextWakeup(ctx context.Context, wakeups []check.WakeupEntry, now time.Time) (time.Time, bool) {
	earliest := now.Add(a.minDelay)

	var chosen time.Time
	found := false

	for _, entry := range wakeups {
		at, ok := a.evaluate(ctx, entry, now)
		if !ok {
			continue
		}

		if at.Before(earliest) {
			a.logger.Debug("aggregator.candidate.excluded", "Wake candidate below minimum sleep time", map[string]interface{}{
				"check":    entry.Check.Name(),
				"wake_at":  at.UTC().Format(time.RFC3339),
				"earliest": earliest.UTC().Format(time.RFC3339),
			})
			continue
		}

		if !found || at.Before(chosen) {
			chosen = at
			found = true
		}
	}

	if !found {
		return time.Time{}, false
	}

	// Wake slightly early so whatever caused the wakeup is served on time,
	// but never inside the minimum sleep window.
	alarm := chosen.Add(-a.delta)
	if alarm.Before(earliest) {
		alarm = earliest
	}

	a.logger.Debug("aggregator.decision", "Selected wake alarm time", map[string]interface{}{
		"candidate": chosen.UTC().Format(time.RFC3339),
		"alarm":     alarm.UTC().Format(time.RFC3339),
	})

	return alarm, true
}

// evaluate runs one wakeup check with its timeout applied. Errors and past
// timestamps are logged and discarded.
func (a *Aggregator) evaluate(ctx context.Context, entry check.WakeupEntry, now time.Time) (time.Time, bool) {
	checkCtx, cancel := context.WithTimeout(ctx, entry.Timeout)
	defer cancel()

	at, ok, err := entry.Check.NextWakeup(checkCtx, now)
	if err != nil {
		a.logger.Warn("aggregator.check.failed", "Wakeup check failed, ignoring", map[string]interface{}{
			"check": entry.Check.Name(),
			"error": err.Error(),
		})
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}

	if !at.After(now) {
		a.logger.Warn("aggregator.check.past", "Wakeup check returned a time not in the future, ignoring", map[string]interface{}{
			"check":   entry.Check.Name(),
			"wake_at": at.UTC().Format(time.RFC3339),
		})
		return time.Time{}, false
	}

	return at, true
}
