package check

import (
	"fmt"
	"strconv"
	"strings"
)

// Options is the immutable string-keyed configuration bag of one check
// instance. Accessors validate at construction time; errors are plain and
// name the option, the registry attaches the section.
type Options map[string]string

// Has reports whether the option is present
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns the option value or a default when absent
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}

// RequiredString returns the option value or an error when absent or empty
func (o Options) RequiredString(key string) (string, error) {
	v, ok := o[key]
	if !ok || v == "" {
		return "", fmt.Errorf("option %q is required", key)
	}
	return v, nil
}

// Int parses an integer option, returning a default when absent
func (o Options) Int(key string, def int) (int, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("option %q: not a valid integer: %q", key, v)
	}
	return n, nil
}

// Float parses a float option, returning a default when absent
func (o Options) Float(key string, def float64) (float64, error) {
	v, ok := o[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("option %q: not a valid number: %q", key, v)
	}
	return f, nil
}

// IntList parses a comma-separated list of integers
func (o Options) IntList(key string) ([]int, error) {
	v, ok := o[key]
	if !ok || strings.TrimSpace(v) == "" {
		return nil, fmt.Errorf("option %q is required", key)
	}

	parts := strings.Split(v, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("option %q: not a valid integer list: %q", key, v)
		}
		result = append(result, n)
	}
	return result, nil
}
