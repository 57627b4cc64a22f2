// Package tui implements the interactive monitor: a live view of every
// activity check, the idle tracker, and the pending wakeup candidate. The
// monitor is strictly observational and never triggers a suspend.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"autosleep/internal/check"
	"autosleep/internal/engine"
	"autosleep/internal/logging"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

// tickMsg drives the periodic re-evaluation
type tickMsg time.Time

// Model is the monitor's bubbletea model
type Model struct {
	logger   *logging.Logger
	settings engine.Settings

	activities []check.ActivityEntry
	wakeups    []check.WakeupEntry

	tracker    *engine.Tracker
	aggregator *engine.Aggregator

	results  []engine.CheckResult
	state    engine.State
	idleFor  time.Duration
	wakeAt   time.Time
	wakeSet  bool
	lastTick time.Time

	quitting bool
}

// NewModel creates a monitor model over the given check set
func NewModel(logger *logging.Logger, settings engine.Settings,
	activities []check.ActivityEntry, wakeups []check.WakeupEntry) Model {
	now := time.Now()
	return Model{
		logger:     logger,
		settings:   settings,
		activities: activities,
		wakeups:    wakeups,
		tracker:    engine.NewTracker(settings.IdleTime, now),
		aggregator: engine.NewAggregator(logger, settings.MinSleepTime, settings.WakeupDelta),
	}
}

// Init schedules the first evaluation immediately
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(time.Now()) }
}

// Update handles key presses and evaluation ticks
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m.evaluate(time.Now()), m.schedule()
		}
		return m, nil

	case tickMsg:
		return m.evaluate(time.Time(msg)), m.schedule()
	}

	return m, nil
}

// schedule queues the next evaluation tick
func (m Model) schedule() tea.Cmd {
	return tea.Tick(m.settings.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// evaluate runs one observation cycle: poll checks, advance the tracker,
// recompute the wakeup candidate.
func (m Model) evaluate(now time.Time) Model {
	ctx := context.Background()

	m.results = engine.EvaluateActivities(ctx, m.logger, m.activities)

	anyActive := false
	for _, r := range m.results {
		if r.Active {
			anyActive = true
		}
	}

	m.state = m.tracker.Update(now, anyActive)
	m.idleFor = m.tracker.IdleFor(now)
	m.wakeAt, m.wakeSet = m.aggregator.NextWakeup(ctx, m.wakeups, now)
	m.lastTick = now

	return m
}

// View renders the monitor screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("autosleep monitor"))
	b.WriteString("\n\n")

	if m.lastTick.IsZero() {
		b.WriteString(labelStyle.Render("Evaluating checks..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render("State: "))
	if m.state == engine.StateIdleConfirmed {
		b.WriteString(inactiveStyle.Render(string(m.state)))
	} else {
		b.WriteString(activeStyle.Render(string(m.state)))
	}
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Idle for: "))
	b.WriteString(fmt.Sprintf("%s / %s", prettyDuration(m.idleFor), prettyDuration(m.settings.IdleTime)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Activity checks"))
	b.WriteString("\n")
	if len(m.results) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, r := range m.results {
		b.WriteString("  ")
		switch {
		case r.Err != nil:
			b.WriteString(errorStyle.Render("! "))
			b.WriteString(fmt.Sprintf("%-20s %s", r.Name, errorStyle.Render(r.Err.Error())))
		case r.Active:
			b.WriteString(activeStyle.Render("● "))
			b.WriteString(fmt.Sprintf("%-20s active", r.Name))
			if r.Reason != "" {
				b.WriteString(labelStyle.Render("  " + r.Reason))
			}
		default:
			b.WriteString(inactiveStyle.Render("○ "))
			b.WriteString(fmt.Sprintf("%-20s idle", r.Name))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Next wakeup: "))
	if m.wakeSet {
		b.WriteString(m.wakeAt.Local().Format(time.RFC3339))
	} else {
		b.WriteString("none scheduled")
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Last evaluated: "))
	b.WriteString(m.lastTick.Local().Format("15:04:05"))
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("r refresh  q quit"))
	b.WriteString("\n")

	return b.String()
}

// prettyDuration formats a duration for display
func prettyDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	return d.Truncate(time.Second).String()
}
