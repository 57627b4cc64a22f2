package checks

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"autosleep/internal/check"
)

const loadAvgPath = "/proc/loadavg"

// LoadCheck reports activity when the one-minute load average exceeds a
// configured threshold.
type LoadCheck struct {
	name      string
	threshold float64
	path      string
}

// NewLoadCheck constructs a load activity check. Required option: threshold.
func NewLoadCheck(name string, opts check.Options) (check.Activity, error) {
	threshold, err := opts.Float("threshold", 0)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("option threshold must be a positive number")
	}
	return &LoadCheck{name: name, threshold: threshold, path: loadAvgPath}, nil
}

// Name returns the configured section name
func (c *LoadCheck) Name() string { return c.name }

// Check reads the one-minute load average and compares it against the
// threshold
func (c *LoadCheck) Check(_ context.Context) (check.Result, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return check.Result{}, fmt.Errorf("failed to read %s: %w", c.path, err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return check.Result{}, fmt.Errorf("unexpected format in %s", c.path)
	}

	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return check.Result{}, fmt.Errorf("failed to parse load average %q: %w", fields[0], err)
	}

	if load > c.threshold {
		return check.Result{
			Active: true,
			Reason: fmt.Sprintf("load average %.2f above threshold %.2f", load, c.threshold),
		}, nil
	}
	return check.Result{}, nil
}
