package check

import "fmt"

// ConfigurationError is a fatal startup error: a check section references an
// unknown type or carries a missing/malformed option. It always names the
// offending section so the operator can find it.
type ConfigurationError struct {
	Section string
	Option  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("check %q: option %q: %s", e.Section, e.Option, e.Message)
	}
	return fmt.Sprintf("check %q: %s", e.Section, e.Message)
}

// EvaluationError is a recoverable per-cycle failure of one check. The
// controller logs it and applies the check's error policy; it never
// terminates the daemon.
type EvaluationError struct {
	Check string
	Err   error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("check %q failed: %v", e.Check, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// NewEvaluationError wraps a check-specific failure
func NewEvaluationError(checkName string, err error) *EvaluationError {
	return &EvaluationError{Check: checkName, Err: err}
}
