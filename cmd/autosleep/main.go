package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"autosleep/internal/check"
	"autosleep/internal/checks"
	"autosleep/internal/config"
	"autosleep/internal/engine"
	"autosleep/internal/logging"
	"autosleep/internal/power"
	"autosleep/internal/secrets"
	"autosleep/internal/tui"
	"autosleep/internal/wake"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) <= 1 {
		printUsage()
		os.Exit(1)
	}

	command := strings.ToLower(os.Args[1])
	if handler, ok := commandHandlers()[command]; ok {
		handler()
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
	printUsage()
	os.Exit(1)
}

func commandHandlers() map[string]func() {
	return map[string]func(){
		"daemon":  runDaemon,
		"once":    runOnce,
		"monitor": runMonitor,
		"config":  runConfig,
		"wake":    runWake,
		"secret":  runSecret,
		"version": runVersion,
		"help":    printUsage,
		"--help":  printUsage,
		"-h":      printUsage,
	}
}

func runVersion() {
	fmt.Printf("autosleep version %s\n", version)
}

// configPath resolves the -c/--config flag, defaulting to the system path
func configPath(args []string) string {
	for i, arg := range args {
		if (arg == "-c" || arg == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return config.DefaultPath
}

// newLogger builds the logger described by the logging section
func newLogger(cfg config.LoggingConfig) *logging.Logger {
	level := logging.ParseLevel(cfg.Level)
	if cfg.File != "" {
		logger, err := logging.NewFileLogger(level, cfg.File)
		if err == nil {
			return logger
		}
		fmt.Fprintf(os.Stderr, "Warning: could not open log file %s: %v\n", cfg.File, err)
	}
	return logging.NewLogger(level)
}

// buildChecks loads the secret store and constructs the configured check set
func buildChecks(cfg *config.Config, logger *logging.Logger) ([]check.ActivityEntry, []check.WakeupEntry, error) {
	registry := checks.DefaultRegistry(logger)

	store, err := secrets.Open(secrets.DefaultPath, secrets.DefaultPassphrasePath, logger)
	if err != nil {
		logger.Warn("secrets.unavailable", "Secret store unavailable, secret references will fail", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		registry.SetSecretResolver(store.Resolver())
	}

	return registry.Build(cfg)
}

// runDaemon starts the polling loop. Configuration errors are fatal here and
// nowhere else.
func runDaemon() {
	path := configPath(os.Args[2:])

	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)

	activities, wakeups, err := buildChecks(&cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pw := power.NewCommandPower(logger, cfg.General.SuspendCmd, cfg.General.WakeupCmd, cfg.General.WakeupCancelCmd)
	controller := engine.NewController(engine.SettingsFromConfig(cfg.General), activities, wakeups, pw, logger, nil)

	// SIGHUP re-reads the config file; a failed reload keeps the running set.
	controller.SetReloader(func() ([]check.ActivityEntry, []check.WakeupEntry, error) {
		reloaded, err := config.LoadFrom(path)
		if err != nil {
			return nil, nil, err
		}
		return buildChecks(&reloaded, logger)
	})

	if err := controller.Run(context.Background()); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runOnce evaluates every activity check a single time and reports. Exit
// status: 0 when no check reports activity, 1 when at least one does, 2 on a
// configuration error.
func runOnce() {
	path := configPath(os.Args[2:])

	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewLogger(logging.LevelError)

	activities, _, err := buildChecks(&cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	results := engine.EvaluateActivities(context.Background(), logger, activities)

	anyActive := false
	for _, r := range results {
		status := "idle"
		detail := r.Reason
		switch {
		case r.Err != nil:
			status = "error"
			detail = r.Err.Error()
		case r.Active:
			status = "active"
			anyActive = true
		}
		if detail != "" {
			fmt.Printf("  %-20s %-8s %s\n", r.Name, status, detail)
		} else {
			fmt.Printf("  %-20s %s\n", r.Name, status)
		}
	}

	if anyActive {
		fmt.Println("System is active")
		os.Exit(1)
	}
	fmt.Println("System is idle")
}

// runMonitor starts the observational TUI
func runMonitor() {
	path := configPath(os.Args[2:])

	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Keep structured output away from the TUI screen.
	logger := logging.NewLogger(logging.LevelError)

	activities, wakeups, err := buildChecks(&cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	model := tui.NewModel(logger, engine.SettingsFromConfig(cfg.General), activities, wakeups)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running monitor: %v\n", err)
		os.Exit(1)
	}
}

func runConfig() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: autosleep config <subcommand>\n")
		fmt.Fprintf(os.Stderr, "Subcommands:\n")
		fmt.Fprintf(os.Stderr, "  test [path]  Test configuration file for validity\n")
		os.Exit(1)
	}

	switch strings.ToLower(os.Args[2]) {
	case "test":
		runConfigTest()
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", os.Args[2])
		fmt.Fprintf(os.Stderr, "Valid subcommands: test\n")
		os.Exit(1)
	}
}

// runConfigTest validates a configuration file and prints a summary
func runConfigTest() {
	path := config.DefaultPath
	if len(os.Args) > 3 {
		path = os.Args[3]
	}
	fmt.Printf("Testing configuration file: %s\n", path)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation FAILED:\n")
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		os.Exit(1)
	}

	enabled := func(list []config.CheckConfig) int {
		n := 0
		for _, c := range list {
			if c.Enabled {
				n++
			}
		}
		return n
	}

	fmt.Println("Configuration is VALID")
	fmt.Println()
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Interval:        %ds\n", cfg.General.IntervalSeconds)
	fmt.Printf("  Idle Time:       %ds\n", cfg.General.IdleTimeSeconds)
	fmt.Printf("  Min Sleep Time:  %ds\n", cfg.General.MinSleepTimeSeconds)
	fmt.Printf("  Wakeup Delta:    %ds\n", cfg.General.WakeupDeltaSeconds)
	fmt.Printf("  Suspend Command: %s\n", cfg.General.SuspendCmd)
	fmt.Printf("  Activity Checks: %d (%d enabled)\n", len(cfg.Checks), enabled(cfg.Checks))
	fmt.Printf("  Wakeup Checks:   %d (%d enabled)\n", len(cfg.Wakeups), enabled(cfg.Wakeups))
	fmt.Printf("  Log Level:       %s\n", cfg.Logging.Level)
}

// runWake broadcasts a Wake-on-LAN magic packet to another host
func runWake() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: autosleep wake <mac> [broadcast]\n")
		os.Exit(1)
	}

	broadcast := ""
	if len(os.Args) > 3 {
		broadcast = os.Args[3]
	}

	logger := logging.NewLogger(logging.LevelInfo)
	sender := wake.NewSender(logger)
	if err := sender.Send(os.Args[2], broadcast); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Magic packet sent to %s\n", os.Args[2])
}

func runSecret() {
	if len(os.Args) < 3 {
		printSecretUsage()
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.LevelInfo)
	store, err := secrets.Open(secrets.DefaultPath, secrets.DefaultPassphrasePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch strings.ToLower(os.Args[2]) {
	case "set":
		runSecretSet(store)
	case "rm":
		runSecretRemove(store)
	case "list":
		runSecretList(store)
	default:
		fmt.Fprintf(os.Stderr, "Unknown secret subcommand: %s\n", os.Args[2])
		printSecretUsage()
		os.Exit(1)
	}
}

// runSecretSet reads the secret value from stdin so it never appears in shell
// history or the process list
func runSecretSet(store *secrets.Store) {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: autosleep secret set <name>\n")
		os.Exit(1)
	}
	name := os.Args[3]

	fmt.Printf("Value for %s: ", name)
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading value: %v\n", err)
		os.Exit(1)
	}

	if err := store.Set(name, strings.TrimRight(value, "\n")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Secret %s stored\n", name)
}

func runSecretRemove(store *secrets.Store) {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: autosleep secret rm <name>\n")
		os.Exit(1)
	}
	name := os.Args[3]

	if err := store.Delete(name); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Secret %s removed\n", name)
}

func runSecretList(store *secrets.Store) {
	names, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Println("No secrets stored")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func printSecretUsage() {
	fmt.Fprintf(os.Stderr, "Usage: autosleep secret <subcommand>\n")
	fmt.Fprintf(os.Stderr, "Subcommands:\n")
	fmt.Fprintf(os.Stderr, "  set <name>   Store a secret (value read from stdin)\n")
	fmt.Fprintf(os.Stderr, "  rm <name>    Remove a secret\n")
	fmt.Fprintf(os.Stderr, "  list         List stored secret names\n")
}

// printUsage displays usage information
func printUsage() {
	fmt.Printf(`autosleep - Automatic suspend daemon (version %s)

Usage:
  autosleep daemon [-c path]       Run the suspend daemon
  autosleep once [-c path]         Evaluate activity checks once and report
  autosleep monitor [-c path]      Live check monitor (read-only, never suspends)
  autosleep config test [path]     Test configuration file for validity
  autosleep wake <mac> [broadcast] Send a Wake-on-LAN magic packet
  autosleep secret <subcommand>    Manage encrypted check secrets (set, rm, list)
  autosleep version                Print version information
  autosleep help                   Show this help message

Exit status for 'once': 0 system idle, 1 system active, 2 error.

The daemon re-reads its configuration on SIGHUP and keeps the running check
set when the new configuration is invalid.
`, version)
}
