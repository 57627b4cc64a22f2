package check

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"autosleep/internal/config"
	"autosleep/internal/logging"
)

// ActivityFactory constructs an activity check from validated options
type ActivityFactory func(name string, opts Options) (Activity, error)

// WakeupFactory constructs a wakeup check from validated options
type WakeupFactory func(name string, opts Options) (Wakeup, error)

// SecretResolver resolves a secret reference in an option value to its
// plaintext. nil disables secret references.
type SecretResolver func(name string) (string, error)

// secretPrefix marks option values that are resolved through the secret store
const secretPrefix = "secret:"

// Registry maps check-type identifiers to factories and builds the configured
// check set. It owns no runtime state beyond construction.
type Registry struct {
	logger     *logging.Logger
	activities map[string]ActivityFactory
	wakeups    map[string]WakeupFactory
	resolver   SecretResolver
}

// NewRegistry creates an empty registry
func NewRegistry(logger *logging.Logger) *Registry {
	return &Registry{
		logger:     logger,
		activities: make(map[string]ActivityFactory),
		wakeups:    make(map[string]WakeupFactory),
	}
}

// RegisterActivity registers a factory for an activity check type
func (r *Registry) RegisterActivity(typeName string, factory ActivityFactory) {
	r.activities[typeName] = factory
}

// RegisterWakeup registers a factory for a wakeup check type
func (r *Registry) RegisterWakeup(typeName string, factory WakeupFactory) {
	r.wakeups[typeName] = factory
}

// SetSecretResolver enables secret: option references
func (r *Registry) SetSecretResolver(resolver SecretResolver) {
	r.resolver = resolver
}

// ActivityTypes returns the registered activity type names, sorted
func (r *Registry) ActivityTypes() []string {
	return sortedKeys(r.activities)
}

// WakeupTypes returns the registered wakeup type names, sorted
func (r *Registry) WakeupTypes() []string {
	return sortedKeys(r.wakeups)
}

// Build constructs one check instance per enabled configuration section,
// preserving configuration order. Any unknown type or malformed option fails
// fast with a ConfigurationError naming the section.
func (r *Registry) Build(cfg *config.Config) ([]ActivityEntry, []WakeupEntry, error) {
	activities := make([]ActivityEntry, 0, len(cfg.Checks))
	for _, section := range cfg.Checks {
		if !section.Enabled {
			r.logger.Debug("registry.check.disabled", "Skipping disabled check", map[string]interface{}{
				"check": section.Name,
			})
			continue
		}

		factory, ok := r.activities[section.Type]
		if !ok {
			return nil, nil, &ConfigurationError{
				Section: section.Name,
				Message: fmt.Sprintf("unknown activity check type %q (known: %s)",
					section.Type, strings.Join(r.ActivityTypes(), ", ")),
			}
		}

		opts, err := r.resolveOptions(section.Name, section.Options)
		if err != nil {
			return nil, nil, err
		}

		instance, err := factory(section.Name, opts)
		if err != nil {
			return nil, nil, asConfigurationError(section.Name, err)
		}

		activities = append(activities, ActivityEntry{
			Check:         instance,
			OnErrorActive: section.OnError == config.OnErrorActive,
			Timeout:       time.Duration(section.TimeoutSeconds) * time.Second,
		})

		r.logger.Debug("registry.check.built", "Activity check constructed", map[string]interface{}{
			"check": section.Name,
			"type":  section.Type,
		})
	}

	wakeups := make([]WakeupEntry, 0, len(cfg.Wakeups))
	for _, section := range cfg.Wakeups {
		if !section.Enabled {
			r.logger.Debug("registry.check.disabled", "Skipping disabled wakeup", map[string]interface{}{
				"check": section.Name,
			})
			continue
		}

		factory, ok := r.wakeups[section.Type]
		if !ok {
			return nil, nil, &ConfigurationError{
				Section: section.Name,
				Message: fmt.Sprintf("unknown wakeup check type %q (known: %s)",
					section.Type, strings.Join(r.WakeupTypes(), ", ")),
			}
		}

		opts, err := r.resolveOptions(section.Name, section.Options)
		if err != nil {
			return nil, nil, err
		}

		instance, err := factory(section.Name, opts)
		if err != nil {
			return nil, nil, asConfigurationError(section.Name, err)
		}

		wakeups = append(wakeups, WakeupEntry{
			Check:   instance,
			Timeout: time.Duration(section.TimeoutSeconds) * time.Second,
		})

		r.logger.Debug("registry.check.built", "Wakeup check constructed", map[string]interface{}{
			"check": section.Name,
			"type":  section.Type,
		})
	}

	return activities, wakeups, nil
}

// resolveOptions copies the option bag, resolving secret: references
func (r *Registry) resolveOptions(section string, raw map[string]string) (Options, error) {
	opts := make(Options, len(raw))
	for key, value := range raw {
		if !strings.HasPrefix(value, secretPrefix) {
			opts[key] = value
			continue
		}

		secretName := strings.TrimPrefix(value, secretPrefix)
		if r.resolver == nil {
			return nil, &ConfigurationError{
				Section: section,
				Option:  key,
				Message: fmt.Sprintf("references secret %q but no secret store is configured", secretName),
			}
		}

		plaintext, err := r.resolver(secretName)
		if err != nil {
			return nil, &ConfigurationError{
				Section: section,
				Option:  key,
				Message: fmt.Sprintf("failed to resolve secret %q: %v", secretName, err),
			}
		}
		opts[key] = plaintext
	}
	return opts, nil
}

// asConfigurationError attaches the section name to a factory error unless it
// already carries one
func asConfigurationError(section string, err error) error {
	if cfgErr, ok := err.(*ConfigurationError); ok {
		if cfgErr.Section == "" {
			cfgErr.Section = section
		}
		return cfgErr
	}
	return &ConfigurationError{Section: section, Message: err.Error()}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
