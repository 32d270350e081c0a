package tui

import (
	"context"
	"fmt"
	"time"

	"scheduler-cli/internal/logging"
	"scheduler-cli/internal/model"
	"scheduler-cli/internal/service"
	"scheduler-cli/internal/store"
	"scheduler-cli/internal/tasklist"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"
)

const (
	// flashDuration is how long a status line message stays visible.
	flashDuration = 3 * time.Second
	// chromeHeight is the number of lines around the task list.
	chromeHeight = 6

	busyFlash = "Busy, try again"
)

// appModel is the list container. It owns the task collection (through
// tasklist.List), the loading flag, the new-task draft and the filter, and it
// is the only place that talks to the service.
type appModel struct {
	ctx      context.Context
	svc      service.Service
	log      *logging.Logger
	stateDir *store.StateDir
	schedule cron.Schedule
	now      func() time.Time
	keys     keyMap

	tasks *tasklist.List
	// rows is keyed by task ID so edit state survives reconciliation.
	rows map[string]*taskRow

	list        list.Model
	spinner     spinner.Model
	filterInput textinput.Model
	createInput textinput.Model
	focus       focus
	showHelp    bool

	// pendingSelectID is selected once it appears in the list (restored state, new task).
	pendingSelectID string

	width  int
	height int

	flash      string
	flashError bool
	flashSeq   int
}

func newAppModel(ctx context.Context, opt Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opt.Logger
	if log == nil {
		log = logging.NopLogger()
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter tasks"

	create := textinput.New()
	create.Prompt = "+ "
	create.Placeholder = "new task"
	create.CharLimit = model.MaxMessageLen

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	l := list.New([]list.Item{}, taskDelegate{}, 80, 24-chromeHeight)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("task", "tasks")

	m := appModel{
		ctx:         ctx,
		svc:         opt.Service,
		log:         log.WithComponent("tui"),
		stateDir:    opt.StateDir,
		schedule:    opt.RefreshSchedule,
		now:         time.Now,
		keys:        defaultKeyMap(),
		tasks:       tasklist.New(nil),
		rows:        map[string]*taskRow{},
		list:        l,
		spinner:     sp,
		filterInput: filter,
		createInput: create,
		width:       80,
		height:      24,
	}

	if m.stateDir != nil {
		if st, err := m.stateDir.LoadTUIState(); err == nil && st != nil {
			m.filterInput.SetValue(st.Filter)
			m.tasks.SetFilter(st.Filter)
			m.pendingSelectID = st.SelectedTaskID
		}
	}

	// The initial fetch is issued by Init.
	m.tasks.SetFetching(true)
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		fetchTasksCmd(m.ctx, m.svc),
		m.spinner.Tick,
		scheduleRefresh(m.schedule, m.now()),
	)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, max(1, m.height-chromeHeight))
		m.filterInput.Width = max(1, m.width-4)
		m.createInput.Width = max(1, m.width-4)
		return m, nil

	case spinner.TickMsg:
		if !m.tasks.Fetching() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshTickMsg:
		next := scheduleRefresh(m.schedule, msg.at)
		if m.tasks.Fetching() {
			m.log.Debug("refresh skipped: request in flight")
			return m, next
		}
		return m, tea.Batch(m.begin(fetchTasksCmd(m.ctx, m.svc)), next)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashError = false
		}
		return m, nil

	case tasksFetchedMsg:
		m.tasks.SetFetching(false)
		if msg.err != nil {
			cmd := m.failed("fetch tasks", "", msg.err)
			return m, cmd
		}
		m.tasks.ReplaceAll(msg.tasks)
		m.syncRows()
		m.log.Debug("tasks fetched", "count", len(msg.tasks))
		return m, nil

	case taskCreatedMsg:
		m.tasks.SetFetching(false)
		if msg.err != nil {
			cmd := m.failed("create task", "", msg.err)
			return m, cmd
		}
		m.tasks.ApplyCreated(msg.task)
		m.createInput.SetValue("")
		m.pendingSelectID = msg.task.ID
		m.syncRows()
		return m, nil

	case taskUpdatedMsg:
		m.tasks.SetFetching(false)
		if msg.err != nil {
			cmd := m.failed(msg.action, msg.id, msg.err)
			return m, cmd
		}
		m.tasks.ApplyUpdated(msg.task)
		m.pendingSelectID = msg.task.ID
		m.syncRows()
		return m, nil

	case taskRemovedMsg:
		m.tasks.SetFetching(false)
		if msg.err != nil {
			cmd := m.failed("remove task", msg.id, msg.err)
			return m, cmd
		}
		m.tasks.ApplyRemoved(msg.id)
		m.syncRows()
		return m, nil

	case allCompletedMsg:
		m.tasks.SetFetching(false)
		if msg.err != nil {
			cmd := m.failed("complete all", "", msg.err)
			return m, cmd
		}
		m.tasks.ApplyUpdated(msg.tasks...)
		m.syncRows()
		cmd := m.showFlash(fmt.Sprintf("Completed %d tasks", len(msg.tasks)), false)
		return m, cmd

	case updateTaskRequestMsg:
		if cmd, refused := m.busy(msg.action, msg.task.ID); refused {
			// The row already left edit mode; give the draft back.
			if row := m.rows[msg.task.ID]; row != nil && msg.action == actionEdit {
				cmd = tea.Batch(cmd, row.resumeEdit(msg.task.Message))
			}
			return m, cmd
		}
		cmd := m.begin(updateTaskCmd(m.ctx, m.svc, msg.action, msg.task))
		return m, cmd

	case removeTaskRequestMsg:
		if cmd, refused := m.busy("remove task", msg.id); refused {
			return m, cmd
		}
		cmd := m.begin(removeTaskCmd(m.ctx, m.svc, msg.id))
		return m, cmd

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel):
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		}
		return nil
	}

	if row := m.selectedRow(); row != nil && row.editing {
		return row.update(msg, m.keys)
	}

	switch m.focus {
	case focusFilter:
		return m.handleFilterKey(msg)
	case focusCreate:
		return m.handleCreateKey(msg)
	}

	row := m.selectedRow()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keys.Filter):
		m.focus = focusFilter
		return m.filterInput.Focus()
	case key.Matches(msg, m.keys.New):
		m.focus = focusCreate
		m.createInput.SetValue(m.tasks.NewTaskMessage())
		m.createInput.CursorEnd()
		return m.createInput.Focus()
	case key.Matches(msg, m.keys.CompleteAll):
		return m.completeAll()
	case key.Matches(msg, m.keys.Refresh):
		if cmd, refused := m.busy("refresh", ""); refused {
			return cmd
		}
		return m.begin(fetchTasksCmd(m.ctx, m.svc))
	case key.Matches(msg, m.keys.Cancel):
		if m.tasks.Filter() != "" {
			m.clearFilter()
		}
		return nil
	}

	if row != nil {
		switch {
		case key.Matches(msg, m.keys.ToggleCompleted):
			return row.toggleCompleted()
		case key.Matches(msg, m.keys.ToggleFavorite):
			return row.toggleFavorite()
		case key.Matches(msg, m.keys.Edit):
			return row.startEdit()
		case key.Matches(msg, m.keys.Remove):
			return row.remove()
		case key.Matches(msg, m.keys.Copy):
			if err := copyToClipboard(row.task.Message); err != nil {
				m.log.Warn("clipboard write failed", "err", err)
				return m.showFlash("Clipboard error: "+err.Error(), true)
			}
			return m.showFlash("Copied: "+row.task.Message, false)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *appModel) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.clearFilter()
		return nil
	case key.Matches(msg, m.keys.Accept):
		m.focus = focusList
		m.filterInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() != m.tasks.Filter() {
		m.tasks.SetFilter(m.filterInput.Value())
		m.syncRows()
	}
	return cmd
}

func (m *appModel) clearFilter() {
	m.focus = focusList
	m.filterInput.Blur()
	m.filterInput.SetValue("")
	m.tasks.SetFilter("")
	m.syncRows()
}

// handleCreateKey edits the new-task draft. Esc keeps the draft for later.
func (m *appModel) handleCreateKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.focus = focusList
		m.createInput.Blur()
		return nil
	case key.Matches(msg, m.keys.Accept):
		return m.create()
	}
	var cmd tea.Cmd
	m.createInput, cmd = m.createInput.Update(msg)
	m.tasks.SetNewTaskMessage(m.createInput.Value())
	return cmd
}

// create sends the draft. An empty draft is a no-op: no request, no loading flag.
func (m *appModel) create() tea.Cmd {
	msg := model.NormalizeMessage(m.createInput.Value())
	if msg == "" {
		return nil
	}
	if n := model.MessageLen(msg); n > model.MaxMessageLen {
		return m.showFlash(fmt.Sprintf("Message too long (%d/%d)", n, model.MaxMessageLen), true)
	}
	if cmd, refused := m.busy("create task", ""); refused {
		return cmd
	}
	m.tasks.SetNewTaskMessage(msg)
	m.focus = focusList
	m.createInput.Blur()
	return m.begin(createTaskCmd(m.ctx, m.svc, msg))
}

// completeAll sends every incomplete task with completed=true. Nothing pending is a no-op.
func (m *appModel) completeAll() tea.Cmd {
	pending := m.tasks.PrepareCompleteAll()
	if len(pending) == 0 {
		return nil
	}
	if cmd, refused := m.busy("complete all", ""); refused {
		return cmd
	}
	return m.begin(completeAllCmd(m.ctx, m.svc, pending))
}

// busy reports whether a request is in flight. Mutations issued meanwhile are
// refused with a flash; the returned cmd expires it.
func (m *appModel) busy(action, id string) (tea.Cmd, bool) {
	if !m.tasks.Fetching() {
		return nil, false
	}
	m.log.Debug("action ignored: request in flight", "action", action, "task_id", id)
	return m.showFlash(busyFlash, true), true
}

func (m *appModel) begin(cmd tea.Cmd) tea.Cmd {
	m.tasks.SetFetching(true)
	return tea.Batch(cmd, m.spinner.Tick)
}

// failed logs a failed round trip. The collection is left as it was.
func (m *appModel) failed(action, id string, err error) tea.Cmd {
	m.log.Error("request failed", "action", action, "task_id", id, "err", err)
	return m.showFlash("Could not "+action+": "+err.Error(), true)
}

func (m *appModel) showFlash(text string, isErr bool) tea.Cmd {
	m.flashSeq++
	seq := m.flashSeq
	m.flash = text
	m.flashError = isErr
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m *appModel) selectedRow() *taskRow {
	row, _ := m.list.SelectedItem().(*taskRow)
	return row
}

// syncRows reconciles rows with the collection and rebuilds the visible list.
// Selection follows the task ID when it survives, otherwise the old position.
func (m *appModel) syncRows() {
	wantID := ""
	if row := m.selectedRow(); row != nil {
		wantID = row.task.ID
	}
	if m.pendingSelectID != "" {
		wantID = m.pendingSelectID
	}
	prevIndex := m.list.Index()

	all := m.tasks.Tasks()
	alive := make(map[string]bool, len(all))
	for _, t := range all {
		alive[t.ID] = true
		if row, ok := m.rows[t.ID]; ok {
			row.setTask(t)
		} else {
			m.rows[t.ID] = newTaskRow(t)
		}
	}
	for id := range m.rows {
		if !alive[id] {
			delete(m.rows, id)
		}
	}

	visible := m.tasks.Visible()
	items := make([]list.Item, 0, len(visible))
	idx := -1
	for i, t := range visible {
		items = append(items, m.rows[t.ID])
		if t.ID == wantID {
			idx = i
		}
	}
	m.list.SetItems(items)
	// A pending ID that is not in a non-empty collection is gone for good.
	if m.tasks.Len() > 0 {
		m.pendingSelectID = ""
	}
	if len(items) == 0 {
		return
	}
	if idx < 0 {
		idx = min(prevIndex, len(items)-1)
	}
	m.list.Select(idx)
}

// state captures what is restored on the next launch.
func (m appModel) state() *store.TUIState {
	st := &store.TUIState{Version: 1, Filter: m.filterInput.Value()}
	if row := m.selectedRow(); row != nil {
		st.SelectedTaskID = row.task.ID
	}
	return st
}

func (m appModel) saveState() error {
	if m.stateDir == nil {
		return nil
	}
	return m.stateDir.SaveTUIState(m.state())
}
