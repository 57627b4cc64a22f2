package config

// Config represents the complete autosleep configuration
type Config struct {
	General GeneralConfig `yaml:"general"`
	Logging LoggingConfig `yaml:"logging"`
	Checks  []CheckConfig `yaml:"checks"`
	Wakeups []CheckConfig `yaml:"wakeups"`
}

// GeneralConfig holds the polling, idle and suspend settings
type GeneralConfig struct {
	// IntervalSeconds is the length of one poll tick
	IntervalSeconds int `yaml:"interval_seconds"`

	// IdleTimeSeconds is the continuous idle duration required before suspend
	IdleTimeSeconds int `yaml:"idle_time_seconds"`

	// MinSleepTimeSeconds discards wake candidates closer than this to now
	MinSleepTimeSeconds int `yaml:"min_sleep_time_seconds"`

	// WakeupDeltaSeconds programs the wake alarm this many seconds early
	WakeupDeltaSeconds int `yaml:"wakeup_delta_seconds"`

	// SuspendCmd is the shell command that puts the system to sleep
	SuspendCmd string `yaml:"suspend_cmd"`

	// WakeupCmd is the shell command template that programs the wake alarm.
	// {timestamp} and {iso} are substituted with the wake time.
	WakeupCmd string `yaml:"wakeup_cmd"`

	// WakeupCancelCmd clears a previously programmed wake alarm
	WakeupCancelCmd string `yaml:"wakeup_cancel_cmd"`

	// NotifyCmdWakeup runs before suspending when a wake is scheduled (template)
	NotifyCmdWakeup string `yaml:"notify_cmd_wakeup"`

	// NotifyCmdNoWakeup runs before suspending when no wake is scheduled
	NotifyCmdNoWakeup string `yaml:"notify_cmd_no_wakeup"`

	// ResumeCmd runs after the suspend command returns control
	ResumeCmd string `yaml:"resume_cmd"`

	// WokeUpFile marks a completed resume for the next tick
	WokeUpFile string `yaml:"woke_up_file"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// CheckConfig binds one named check section to a check type and its options
type CheckConfig struct {
	Name           string            `yaml:"name"`
	Type           string            `yaml:"type"`
	Enabled        bool              `yaml:"enabled"`
	OnError        string            `yaml:"on_error"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Options        map[string]string `yaml:"options"`
}

// Error policy values for CheckConfig.OnError
const (
	OnErrorInactive = "inactive"
	OnErrorActive   = "active"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
