package engine

import (
	"context"
	"errors"
	"time"

	"autosleep/internal/check"
)

// fakeClock is a manually advanced clock for deterministic ticks
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// fakeActivity returns a scripted sequence of results, repeating the last one
type fakeActivity struct {
	name    string
	results []check.Result
	errs    []error
	calls   int
}

func (f *fakeActivity) Name() string { return f.name }

func (f *fakeActivity) Check(_ context.Context) (check.Result, error) {
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return f.results[i], err
}

func activeCheck(name string) *fakeActivity {
	return &fakeActivity{name: name, results: []check.Result{{Active: true, Reason: "busy"}}}
}

func inactiveCheck(name string) *fakeActivity {
	return &fakeActivity{name: name, results: []check.Result{{}}}
}

func failingCheck(name string) *fakeActivity {
	return &fakeActivity{
		name:    name,
		results: []check.Result{{}},
		errs:    []error{errors.New("endpoint unreachable")},
	}
}

// slowActivity blocks until its context expires, reporting active if it is
// ever allowed to finish on its own
type slowActivity struct {
	name string
}

func (s *slowActivity) Name() string { return s.name }

func (s *slowActivity) Check(ctx context.Context) (check.Result, error) {
	select {
	case <-ctx.Done():
		return check.Result{}, ctx.Err()
	case <-time.After(5 * time.Second):
		return check.Result{Active: true, Reason: "finished unbounded"}, nil
	}
}

// fakeWakeup returns a fixed offset from now, or an error
type fakeWakeup struct {
	name   string
	offset time.Duration
	ok     bool
	err    error
}

func (f *fakeWakeup) Name() string { return f.name }

func (f *fakeWakeup) NextWakeup(_ context.Context, now time.Time) (time.Time, bool, error) {
	if f.err != nil {
		return time.Time{}, false, f.err
	}
	if !f.ok {
		return time.Time{}, false, nil
	}
	return now.Add(f.offset), true, nil
}

// fakePower records primitive invocations in order
type fakePower struct {
	calls        []string
	scheduled    []time.Time
	suspendErr   error
	scheduleErr  error
	cancelErr    error
	suspendCount int
}

func (f *fakePower) Suspend(_ context.Context) error {
	f.calls = append(f.calls, "suspend")
	f.suspendCount++
	return f.suspendErr
}

func (f *fakePower) ScheduleWake(_ context.Context, at time.Time) error {
	f.calls = append(f.calls, "schedule")
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.scheduled = append(f.scheduled, at)
	return nil
}

func (f *fakePower) CancelWake(_ context.Context) error {
	f.calls = append(f.calls, "cancel")
	return f.cancelErr
}

func entries(checks ...check.Activity) []check.ActivityEntry {
	result := make([]check.ActivityEntry, 0, len(checks))
	for _, c := range checks {
		result = append(result, check.ActivityEntry{Check: c, Timeout: time.Second})
	}
	return result
}

func wakeupEntries(checks ...check.Wakeup) []check.WakeupEntry {
	result := make([]check.WakeupEntry, 0, len(checks))
	for _, c := range checks {
		result = append(result, check.WakeupEntry{Check: c, Timeout: time.Second})
	}
	return result
}
