package tui

import (
	"context"
	"errors"

	"scheduler-cli/internal/logging"
	"scheduler-cli/internal/service"
	"scheduler-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"
)

type Options struct {
	Service service.Service
	Logger  *logging.Logger
	// StateDir persists the filter and selection between runs. Nil disables it.
	StateDir *store.StateDir
	// Glyphs is "unicode" or "ascii".
	Glyphs string
	// RefreshSchedule triggers periodic refetch. Nil disables it.
	RefreshSchedule cron.Schedule
}

// Run starts the interactive task list and blocks until the user quits.
func Run(ctx context.Context, opt Options) error {
	if opt.Service == nil {
		return errors.New("tui: missing service")
	}
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opt.Glyphs)

	m := newAppModel(ctx, opt)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(appModel); ok {
		if serr := fm.saveState(); serr != nil {
			fm.log.Warn("save tui state failed", "err", serr)
		}
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
