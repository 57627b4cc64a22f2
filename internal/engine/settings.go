package engine

import (
	"time"

	"autosleep/internal/config"
)

// SettingsFromConfig maps the validated general configuration onto controller
// settings
func SettingsFromConfig(g config.GeneralConfig) Settings {
	return Settings{
		Interval:          time.Duration(g.IntervalSeconds) * time.Second,
		IdleTime:          time.Duration(g.IdleTimeSeconds) * time.Second,
		MinSleepTime:      time.Duration(g.MinSleepTimeSeconds) * time.Second,
		WakeupDelta:       time.Duration(g.WakeupDeltaSeconds) * time.Second,
		WokeUpFile:        g.WokeUpFile,
		NotifyCmdWakeup:   g.NotifyCmdWakeup,
		NotifyCmdNoWakeup: g.NotifyCmdNoWakeup,
		ResumeCmd:         g.ResumeCmd,
	}
}
