package checks

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"autosleep/internal/check"
)

// FileWakeup obtains the next wake time from a file containing a single
// timestamp. A missing file means no opinion.
type FileWakeup struct {
	name string
	path string
}

// NewFileWakeup constructs a file wakeup check. Required option: path.
func NewFileWakeup(name string, opts check.Options) (check.Wakeup, error) {
	path, err := opts.RequiredString("path")
	if err != nil {
		return nil, err
	}
	return &FileWakeup{name: name, path: path}, nil
}

// Name returns the configured section name
func (c *FileWakeup) Name() string { return c.name }

// NextWakeup reads the file and parses its content as a timestamp (unix
// seconds or RFC 3339)
func (c *FileWakeup) NextWakeup(_ context.Context, _ time.Time) (time.Time, bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read %s: %w", c.path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return time.Time{}, false, nil
	}

	at, err := ParseTimestamp(text)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("file %s contains %w", c.path, err)
	}
	return at, true, nil
}

// PeriodicWakeup always requests a wake a fixed interval in the future,
// keeping the system on a regular schedule across suspends.
type PeriodicWakeup struct {
	name   string
	period time.Duration
}

// NewPeriodicWakeup constructs a periodic wakeup check. Required option:
// seconds.
func NewPeriodicWakeup(name string, opts check.Options) (check.Wakeup, error) {
	seconds, err := opts.Int("seconds", 0)
	if err != nil {
		return nil, err
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("option seconds must be a positive integer")
	}
	return &PeriodicWakeup{name: name, period: time.Duration(seconds) * time.Second}, nil
}

// Name returns the configured section name
func (c *PeriodicWakeup) Name() string { return c.name }

// NextWakeup requests a wake one period from now
func (c *PeriodicWakeup) NextWakeup(_ context.Context, now time.Time) (time.Time, bool, error) {
	return now.Add(c.period), true, nil
}
