package config

import (
	"fmt"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGeneral()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, validateCheckSections("checks", c.Checks)...)
	errors = append(errors, validateCheckSections("wakeups", c.Wakeups)...)
	errors = append(errors, c.validateEnabledChecks()...)

	return errors
}

func (c *Config) validateGeneral() []ValidationError {
	var errors []ValidationError

	if c.General.IntervalSeconds < 1 {
		errors = append(errors, ValidationError{
			Path:    "general.interval_seconds",
			Message: fmt.Sprintf("must be at least 1, got %d", c.General.IntervalSeconds),
		})
	}

	if c.General.IdleTimeSeconds < 1 {
		errors = append(errors, ValidationError{
			Path:    "general.idle_time_seconds",
			Message: fmt.Sprintf("must be at least 1, got %d", c.General.IdleTimeSeconds),
		})
	}

	if c.General.MinSleepTimeSeconds < 0 {
		errors = append(errors, ValidationError{
			Path:    "general.min_sleep_time_seconds",
			Message: fmt.Sprintf("must be non-negative, got %d", c.General.MinSleepTimeSeconds),
		})
	}

	if c.General.WakeupDeltaSeconds < 0 {
		errors = append(errors, ValidationError{
			Path:    "general.wakeup_delta_seconds",
			Message: fmt.Sprintf("must be non-negative, got %d", c.General.WakeupDeltaSeconds),
		})
	}

	if c.General.SuspendCmd == "" {
		errors = append(errors, ValidationError{
			Path:    "general.suspend_cmd",
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validFormats, c.Logging.Format),
		})
	}

	return errors
}

func validateCheckSections(kind string, checks []CheckConfig) []ValidationError {
	var errors []ValidationError
	seen := make(map[string]bool)

	for i, check := range checks {
		path := fmt.Sprintf("%s[%d]", kind, i)
		if check.Name != "" {
			path = fmt.Sprintf("%s.%s", kind, check.Name)
		}

		if check.Name == "" {
			errors = append(errors, ValidationError{
				Path:    path + ".name",
				Message: "must not be empty",
			})
		} else if seen[check.Name] {
			errors = append(errors, ValidationError{
				Path:    path + ".name",
				Message: fmt.Sprintf("duplicate check name '%s'", check.Name),
			})
		}
		seen[check.Name] = true

		if check.Type == "" {
			errors = append(errors, ValidationError{
				Path:    path + ".type",
				Message: "must not be empty",
			})
		}

		if check.OnError != OnErrorInactive && check.OnError != OnErrorActive {
			errors = append(errors, ValidationError{
				Path:    path + ".on_error",
				Message: fmt.Sprintf("must be '%s' or '%s', got '%s'", OnErrorInactive, OnErrorActive, check.OnError),
			})
		}

		if check.TimeoutSeconds < 1 {
			errors = append(errors, ValidationError{
				Path:    path + ".timeout_seconds",
				Message: fmt.Sprintf("must be at least 1, got %d", check.TimeoutSeconds),
			})
		}
	}

	return errors
}

// validateEnabledChecks requires at least one enabled activity check; a daemon
// with nothing to observe would suspend unconditionally.
func (c *Config) validateEnabledChecks() []ValidationError {
	for _, check := range c.Checks {
		if check.Enabled {
			return nil
		}
	}

	return []ValidationError{{
		Path:    "checks",
		Message: "at least one activity check must be enabled",
	}}
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
