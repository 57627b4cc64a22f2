package checks

import (
	"autosleep/internal/check"
	"autosleep/internal/logging"
)

// DefaultRegistry returns a registry with all built-in check types
// registered.
func DefaultRegistry(logger *logging.Logger) *check.Registry {
	r := check.NewRegistry(logger)

	r.RegisterActivity("command", NewCommandCheck)
	r.RegisterActivity("load", NewLoadCheck)
	r.RegisterActivity("connections", NewConnectionsCheck)
	r.RegisterActivity("gpu", NewGpuCheck)

	r.RegisterWakeup("command", NewCommandWakeup)
	r.RegisterWakeup("file", NewFileWakeup)
	r.RegisterWakeup("periodic", NewPeriodicWakeup)

	return r
}
