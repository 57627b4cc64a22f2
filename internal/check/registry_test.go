package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"autosleep/internal/config"
	"autosleep/internal/logging"
)

type staticActivity struct {
	name string
}

func (s *staticActivity) Name() string { return s.name }

func (s *staticActivity) Check(_ context.Context) (Result, error) {
	return Result{}, nil
}

type staticWakeup struct {
	name string
}

func (s *staticWakeup) Name() string { return s.name }

func (s *staticWakeup) NextWakeup(_ context.Context, _ time.Time) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

func testRegistry() *Registry {
	logger := logging.NewLogger(logging.LevelError)
	r := NewRegistry(logger)
	r.RegisterActivity("static", func(name string, _ Options) (Activity, error) {
		return &staticActivity{name: name}, nil
	})
	r.RegisterActivity("strict", func(name string, opts Options) (Activity, error) {
		if _, err := opts.RequiredString("target"); err != nil {
			return nil, err
		}
		return &staticActivity{name: name}, nil
	})
	r.RegisterWakeup("static", func(name string, _ Options) (Wakeup, error) {
		return &staticWakeup{name: name}, nil
	})
	return r
}

func checkSection(name, typeName string) config.CheckConfig {
	return config.CheckConfig{
		Name:           name,
		Type:           typeName,
		Enabled:        true,
		OnError:        config.OnErrorInactive,
		TimeoutSeconds: 5,
	}
}

func TestRegistry_Build_PreservesOrder(t *testing.T) {
	r := testRegistry()
	cfg := &config.Config{
		Checks: []config.CheckConfig{
			checkSection("first", "static"),
			checkSection("second", "static"),
			checkSection("third", "static"),
		},
	}

	activities, wakeups, err := r.Build(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(wakeups) != 0 {
		t.Errorf("Expected no wakeups, got %d", len(wakeups))
	}

	names := make([]string, 0, len(activities))
	for _, entry := range activities {
		names = append(names, entry.Check.Name())
	}
	if strings.Join(names, ",") != "first,second,third" {
		t.Errorf("Expected configuration order preserved, got %v", names)
	}
}

func TestRegistry_Build_SkipsDisabled(t *testing.T) {
	r := testRegistry()
	disabled := checkSection("off", "static")
	disabled.Enabled = false

	cfg := &config.Config{
		Checks: []config.CheckConfig{disabled, checkSection("on", "static")},
	}

	activities, _, err := r.Build(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(activities) != 1 || activities[0].Check.Name() != "on" {
		t.Errorf("Expected only enabled check, got %+v", activities)
	}
}

func TestRegistry_Build_UnknownType(t *testing.T) {
	r := testRegistry()
	cfg := &config.Config{
		Checks: []config.CheckConfig{checkSection("media", "player")},
	}

	_, _, err := r.Build(cfg)
	if err == nil {
		t.Fatal("Expected error for unknown check type")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %T", err)
	}
	if cfgErr.Section != "media" {
		t.Errorf("Expected section 'media' in error, got %q", cfgErr.Section)
	}
	if !strings.Contains(err.Error(), "player") {
		t.Errorf("Expected error to name the unknown type, got: %v", err)
	}
}

func TestRegistry_Build_FactoryErrorNamesSection(t *testing.T) {
	r := testRegistry()
	cfg := &config.Config{
		Checks: []config.CheckConfig{checkSection("watchdog", "strict")},
	}

	_, _, err := r.Build(cfg)
	if err == nil {
		t.Fatal("Expected error for missing required option")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %T", err)
	}
	if cfgErr.Section != "watchdog" {
		t.Errorf("Expected section 'watchdog', got %q", cfgErr.Section)
	}
	if !strings.Contains(err.Error(), "target") {
		t.Errorf("Expected error to name the option, got: %v", err)
	}
}

func TestRegistry_Build_EntryPolicy(t *testing.T) {
	r := testRegistry()
	section := checkSection("busy", "static")
	section.OnError = config.OnErrorActive
	section.TimeoutSeconds = 7

	cfg := &config.Config{Checks: []config.CheckConfig{section}}

	activities, _, err := r.Build(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	entry := activities[0]
	if !entry.OnErrorActive {
		t.Error("Expected OnErrorActive to be set")
	}
	if entry.Timeout != 7*time.Second {
		t.Errorf("Expected 7s timeout, got %s", entry.Timeout)
	}
}

func TestRegistry_Build_ResolvesSecrets(t *testing.T) {
	r := testRegistry()
	r.SetSecretResolver(func(name string) (string, error) {
		if name == "mpd-password" {
			return "hunter2", nil
		}
		return "", fmt.Errorf("unknown secret %q", name)
	})

	section := checkSection("watchdog", "strict")
	section.Options = map[string]string{"target": "secret:mpd-password"}
	cfg := &config.Config{Checks: []config.CheckConfig{section}}

	if _, _, err := r.Build(cfg); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	section.Options = map[string]string{"target": "secret:missing"}
	cfg = &config.Config{Checks: []config.CheckConfig{section}}
	_, _, err := r.Build(cfg)
	if err == nil {
		t.Fatal("Expected error for unresolvable secret")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Option != "target" {
		t.Errorf("Expected ConfigurationError naming option 'target', got %v", err)
	}
}

func TestRegistry_Build_SecretWithoutStore(t *testing.T) {
	r := testRegistry()
	section := checkSection("watchdog", "strict")
	section.Options = map[string]string{"target": "secret:anything"}
	cfg := &config.Config{Checks: []config.CheckConfig{section}}

	if _, _, err := r.Build(cfg); err == nil {
		t.Fatal("Expected error for secret reference without a store")
	}
}
