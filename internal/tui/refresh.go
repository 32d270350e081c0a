package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"
)

// scheduleRefresh waits until the schedule's next activation after now.
// A nil schedule disables periodic refetch.
func scheduleRefresh(sched cron.Schedule, now time.Time) tea.Cmd {
	if sched == nil {
		return nil
	}
	next := sched.Next(now)
	if next.IsZero() {
		return nil
	}
	return tea.Tick(next.Sub(now), func(t time.Time) tea.Msg { return refreshTickMsg{at: t} })
}
