package engine

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autosleep/internal/check"
	"autosleep/internal/logging"
	"autosleep/internal/power"
)

// Settings holds the controller's timing and hook configuration
type Settings struct {
	Interval     time.Duration
	IdleTime     time.Duration
	MinSleepTime time.Duration
	WakeupDelta  time.Duration

	// WokeUpFile marks a completed resume for the next tick
	WokeUpFile string

	// Pre-suspend hooks; the wakeup variant is a template receiving the
	// scheduled time
	NotifyCmdWakeup   string
	NotifyCmdNoWakeup string

	// ResumeCmd runs after the suspend primitive returns control
	ResumeCmd string
}

// CheckResult summarizes one activity check evaluation within a tick
type CheckResult struct {
	Name   string
	Active bool
	Reason string
	Err    error
}

// TickResult is the outcome of one poll-evaluate-decide cycle
type TickResult struct {
	State     State
	Active    bool
	IdleFor   time.Duration
	JustWoke  bool
	Suspended bool
	WakeAt    time.Time
	WakeSet   bool
	Checks    []CheckResult
}

// Reloader rebuilds the check set from configuration; installed for SIGHUP
type Reloader func() (activities []check.ActivityEntry, wakeups []check.WakeupEntry, err error)

// Controller runs the main loop: it polls activity checks each tick, updates
// the idle tracker, and once idleness is confirmed drives the suspend
// sequence. It is strictly single-threaded; a tick (including a suspend) runs
// to completion before the loop continues.
type Controller struct {
	logger     *logging.Logger
	clock      Clock
	settings   Settings
	activities []check.ActivityEntry
	wakeups    []check.WakeupEntry
	aggregator *Aggregator
	tracker    *Tracker
	power      power.Interface
	reload     Reloader
}

// NewController creates a controller. clock may be nil, defaulting to
// time.Now.
func NewController(settings Settings, activities []check.ActivityEntry, wakeups []check.WakeupEntry,
	pw power.Interface, logger *logging.Logger, clock Clock) *Controller {
	if clock == nil {
		clock = time.Now
	}
	return &Controller{
		logger:     logger,
		clock:      clock,
		settings:   settings,
		activities: activities,
		wakeups:    wakeups,
		aggregator: NewAggregator(logger, settings.MinSleepTime, settings.WakeupDelta),
		tracker:    NewTracker(settings.IdleTime, clock()),
		power:      pw,
	}
}

// SetReloader installs the SIGHUP reload callback
func (c *Controller) SetReloader(reload Reloader) {
	c.reload = reload
}

// Run executes the polling loop until the context is cancelled or a
// termination signal arrives. Signals are only consumed between ticks, so a
// suspend sequence in flight always completes before shutdown.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("engine.started", "Suspend controller started", map[string]interface{}{
		"pid":         os.Getpid(),
		"interval_s":  c.settings.Interval.Seconds(),
		"idle_time_s": c.settings.IdleTime.Seconds(),
		"activities":  len(c.activities),
		"wakeups":     len(c.wakeups),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(c.settings.Interval)
	defer ticker.Stop()

	c.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("engine.stopped", "Context cancelled", nil)
			return ctx.Err()

		case sig := <-sigChan:
			switch sig {
			case syscall.SIGHUP:
				c.handleReload()
			case syscall.SIGINT, syscall.SIGTERM:
				c.logger.Info("engine.stopped", "Termination signal received", map[string]interface{}{
					"signal": sig.String(),
				})
				return nil
			}

		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Tick executes one poll-evaluate-decide cycle
func (c *Controller) Tick(ctx context.Context) TickResult {
	now := c.clock()

	// A pending marker means the machine resumed while the daemon slept
	// between ticks; the resume counts as activity. Checks are still
	// evaluated so the tick summary stays complete.
	justWoke := c.consumeWokeUpMarker()
	if justWoke {
		c.logger.Info("engine.resumed", "Woke-up marker found, treating resume as activity", nil)
	}

	results := c.evaluateActivities(ctx)

	anyActive := justWoke
	for _, r := range results {
		if r.Active {
			anyActive = true
		}
	}

	state := c.tracker.Update(now, anyActive)
	idleFor := c.tracker.IdleFor(now)

	c.logTick(now, state, idleFor, results)

	result := TickResult{
		State:    state,
		Active:   anyActive,
		IdleFor:  idleFor,
		JustWoke: justWoke,
		Checks:   results,
	}

	if state == StateIdleConfirmed {
		result.Suspended, result.WakeAt, result.WakeSet = c.suspendSequence(ctx, now)
	}

	return result
}

// evaluateActivities polls the controller's activity checks
func (c *Controller) evaluateActivities(ctx context.Context) []CheckResult {
	return EvaluateActivities(ctx, c.logger, c.activities)
}

// EvaluateActivities polls every activity check sequentially. Each evaluation
// is isolated: a failure is logged and mapped through the check's error
// policy, and never aborts the cycle.
func EvaluateActivities(ctx context.Context, logger *logging.Logger, activities []check.ActivityEntry) []CheckResult {
	results := make([]CheckResult, 0, len(activities))

	for _, entry := range activities {
		checkCtx, cancel := context.WithTimeout(ctx, entry.Timeout)
		res, err := entry.Check.Check(checkCtx)
		cancel()

		result := CheckResult{
			Name:   entry.Check.Name(),
			Active: res.Active,
			Reason: res.Reason,
		}

		if err != nil {
			evalErr := check.NewEvaluationError(entry.Check.Name(), err)
			result.Err = evalErr
			result.Active = entry.OnErrorActive
			if entry.OnErrorActive {
				result.Reason = "evaluation error treated as activity"
			}
			logger.Warn("engine.check.failed", "Activity check failed", map[string]interface{}{
				"check":           entry.Check.Name(),
				"error":           evalErr.Error(),
				"on_error_active": entry.OnErrorActive,
			})
		}

		results = append(results, result)
	}

	return results
}

// suspendSequence runs the ordered side-effecting suspend steps. Programming
// the wake alarm must succeed (or be deliberately skipped) before the sleep
// primitive is invoked; a scheduling failure aborts the sequence and the next
// tick retries independently.
func (c *Controller) suspendSequence(ctx context.Context, now time.Time) (suspended bool, wakeAt time.Time, wakeSet bool) {
	wakeAt, wakeSet = c.aggregator.NextWakeup(ctx, c.wakeups, now)

	c.runNotifyHook(ctx, wakeAt, wakeSet)

	if wakeSet {
		if err := c.power.ScheduleWake(ctx, wakeAt); err != nil {
			c.logger.Error("engine.wake.schedule_failed", "Aborting suspend, wake alarm not programmed", map[string]interface{}{
				"wake_at": wakeAt.UTC().Format(time.RFC3339),
				"error":   err.Error(),
			})
			return false, wakeAt, wakeSet
		}
	}

	if err := c.power.Suspend(ctx); err != nil {
		c.logger.Error("engine.suspend.failed", "Suspend primitive failed, abandoning cycle", map[string]interface{}{
			"error": err.Error(),
		})
		if wakeSet {
			if cancelErr := c.power.CancelWake(ctx); cancelErr != nil {
				c.logger.Warn("engine.wake.cancel_failed", "Could not clear wake alarm after failed suspend", map[string]interface{}{
					"error": cancelErr.Error(),
				})
			}
		}
		return false, wakeAt, wakeSet
	}

	// Control returns here after resume.
	c.touchWokeUpMarker()
	c.runResumeHook(ctx)

	// Resume counts as fresh activity so the next tick does not immediately
	// re-suspend.
	c.tracker.MarkActive(c.clock())

	c.logger.Info("engine.resumed", "Resumed from suspend", map[string]interface{}{
		"wake_was_set": wakeSet,
	})

	return true, wakeAt, wakeSet
}

func (c *Controller) runNotifyHook(ctx context.Context, wakeAt time.Time, wakeSet bool) {
	var command string
	if wakeSet && c.settings.NotifyCmdWakeup != "" {
		command = power.ExpandTemplate(c.settings.NotifyCmdWakeup, wakeAt)
	} else if !wakeSet && c.settings.NotifyCmdNoWakeup != "" {
		command = c.settings.NotifyCmdNoWakeup
	}
	if command == "" {
		return
	}

	if err := power.RunCommand(ctx, command); err != nil {
		c.logger.Warn("engine.hook.notify_failed", "Pre-suspend hook failed, continuing", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *Controller) runResumeHook(ctx context.Context) {
	if c.settings.ResumeCmd == "" {
		return
	}

	if err := power.RunCommand(ctx, c.settings.ResumeCmd); err != nil {
		c.logger.Warn("engine.hook.resume_failed", "Post-resume hook failed, continuing", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// consumeWokeUpMarker reports and removes the woke-up marker file. The marker
// covers resumes the daemon did not itself observe, e.g. a wake alarm firing
// while the process slept between ticks.
func (c *Controller) consumeWokeUpMarker() bool {
	if c.settings.WokeUpFile == "" {
		return false
	}
	if _, err := os.Stat(c.settings.WokeUpFile); err != nil {
		return false
	}
	if err := os.Remove(c.settings.WokeUpFile); err != nil {
		c.logger.Warn("engine.marker.remove_failed", "Could not remove woke-up marker", map[string]interface{}{
			"path":  c.settings.WokeUpFile,
			"error": err.Error(),
		})
	}
	return true
}

func (c *Controller) touchWokeUpMarker() {
	if c.settings.WokeUpFile == "" {
		return
	}
	if err := os.WriteFile(c.settings.WokeUpFile, []byte{}, 0600); err != nil {
		c.logger.Warn("engine.marker.write_failed", "Could not write woke-up marker", map[string]interface{}{
			"path":  c.settings.WokeUpFile,
			"error": err.Error(),
		})
	}
}

// handleReload rebuilds the check set via the installed reloader. On failure
// the running set stays in place.
func (c *Controller) handleReload() {
	if c.reload == nil {
		c.logger.Warn("engine.reload.unsupported", "No reloader installed, ignoring SIGHUP", nil)
		return
	}

	activities, wakeups, err := c.reload()
	if err != nil {
		c.logger.Error("engine.reload.failed", "Configuration reload failed, keeping current checks", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	c.activities = activities
	c.wakeups = wakeups
	c.logger.Info("engine.reload.done", "Check set reloaded", map[string]interface{}{
		"activities": len(activities),
		"wakeups":    len(wakeups),
	})
}

// logTick emits the per-tick summary: one event carrying every check's result
// and the resulting state
func (c *Controller) logTick(now time.Time, state State, idleFor time.Duration, results []CheckResult) {
	checks := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		entry := map[string]interface{}{
			"name":   r.Name,
			"active": r.Active,
		}
		if r.Reason != "" {
			entry["reason"] = r.Reason
		}
		if r.Err != nil {
			entry["error"] = r.Err.Error()
		}
		checks = append(checks, entry)
	}

	c.logger.Info("engine.tick", "Tick completed", map[string]interface{}{
		"ts":          now.UTC().Format(time.RFC3339),
		"state":       string(state),
		"idle_for_s":  int(idleFor.Seconds()),
		"threshold_s": int(c.settings.IdleTime.Seconds()),
		"checks":      checks,
	})
}
