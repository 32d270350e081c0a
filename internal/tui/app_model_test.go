package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scheduler-cli/internal/model"
	"scheduler-cli/internal/store"
	"scheduler-cli/internal/testutil"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", false, false)
	svc.AddTask("Call mom", false, true)
	svc.AddTask("File taxes", true, false)
	svc.AddTask("Walk dog", false, false)
	return svc
}

func TestAppModel_InitialFetchGroupsTasks(t *testing.T) {
	m := startedModel(t, seeded())

	assert.False(t, m.tasks.Fetching())
	// Active favorites, active newest first, then completed.
	assert.Equal(t, []string{"Call mom", "Walk dog", "Buy milk", "File taxes"}, visibleMessages(m))
	assert.Len(t, m.rows, 4)
}

func TestAppModel_FetchErrorLeavesStateAndClearsFlag(t *testing.T) {
	svc := seeded()
	svc.FetchErr = errors.New("boom")
	m := startedModel(t, svc)

	assert.False(t, m.tasks.Fetching())
	assert.Equal(t, 0, m.tasks.Len())
	assert.True(t, m.flashError)
	assert.Contains(t, m.flash, "boom")
}

func TestAppModel_FilterIsCaseInsensitiveSubstring(t *testing.T) {
	m := startedModel(t, seeded())

	m = press(m, "/")
	require.Equal(t, focusFilter, m.focus)
	m = typeText(m, "MIL")
	assert.Equal(t, []string{"Buy milk"}, visibleMessages(m))
	assert.Equal(t, 4, m.tasks.Len(), "filter never changes the collection")

	m = press(m, "enter")
	assert.Equal(t, focusList, m.focus)
	assert.Equal(t, []string{"Buy milk"}, visibleMessages(m))

	m = press(m, "esc")
	assert.Len(t, visibleMessages(m), 4)
}

func TestAppModel_CreateEmptyIsNoop(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	svc.Calls = nil

	m = press(m, "n")
	m = typeText(m, "   ")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(appModel)

	assert.Nil(t, cmd)
	assert.False(t, m.tasks.Fetching())
	assert.Empty(t, svc.Calls)
}

func TestAppModel_CreatePrependsAndClearsDraft(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)

	m = press(m, "n")
	m = typeText(m, "  Pay rent ")
	m = press(m, "enter")

	require.Equal(t, 5, m.tasks.Len())
	assert.Equal(t, "", m.tasks.NewTaskMessage())
	assert.Equal(t, "", m.createInput.Value())
	// Newest active non-favorite lands after the favorites.
	assert.Equal(t, []string{"Call mom", "Pay rent", "Walk dog", "Buy milk", "File taxes"}, visibleMessages(m))
	assert.Equal(t, "Pay rent", m.selectedRow().task.Message)
}

func TestAppModel_CreateFailureKeepsDraft(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	svc.CreateErr = errors.New("offline")

	m = press(m, "n")
	m = typeText(m, "Pay rent")
	m = press(m, "enter")

	assert.Equal(t, 4, m.tasks.Len())
	assert.Equal(t, "Pay rent", m.tasks.NewTaskMessage())
	assert.False(t, m.tasks.Fetching())
}

func TestAppModel_RemoveDropsExactlyThatID(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)

	m = selectMessage(t, m, "Buy milk")
	m = press(m, "d")

	assert.Equal(t, []string{"Call mom", "Walk dog", "File taxes"}, visibleMessages(m))
	assert.Len(t, svc.Snapshot(), 3)
	assert.Len(t, m.rows, 3)
}

func TestAppModel_TogglesFlipOnlyOneBoolean(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)

	m = selectMessage(t, m, "Walk dog")
	before := m.selectedRow().task
	m = press(m, "space")

	after, ok := m.tasks.Find(before.ID)
	require.True(t, ok)
	assert.True(t, after.Completed)
	assert.Equal(t, before.Favorite, after.Favorite)
	assert.Equal(t, before.Message, after.Message)
	// Selection follows the task into the completed group.
	assert.Equal(t, before.ID, m.selectedRow().task.ID)

	m = press(m, "f")
	after, _ = m.tasks.Find(before.ID)
	assert.True(t, after.Favorite)
	assert.True(t, after.Completed)
}

func TestAppModel_UpdateFailureLeavesTaskUntouched(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	svc.UpdateErr = errors.New("nope")

	m = selectMessage(t, m, "Buy milk")
	id := m.selectedRow().task.ID
	m = press(m, "x")

	got, _ := m.tasks.Find(id)
	assert.False(t, got.Completed)
	assert.False(t, m.tasks.Fetching())
	assert.True(t, m.flashError)
}

func TestAppModel_CompleteAll(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	require.False(t, m.tasks.AllCompleted())

	svc.Calls = nil
	m = press(m, "C")

	assert.True(t, m.tasks.AllCompleted())
	assert.Equal(t, []string{"CompleteAllTasks"}, svc.Calls)
	for _, task := range svc.Snapshot() {
		assert.True(t, task.Completed, task.Message)
	}

	// Nothing left to complete: no request.
	svc.Calls = nil
	next, cmd := m.Update(keyMsg("C"))
	assert.Nil(t, cmd)
	assert.False(t, next.(appModel).tasks.Fetching())
	assert.Empty(t, svc.Calls)
}

func TestAppModel_CompleteAllFailureLeavesState(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	svc.CompleteAllErr = errors.New("partial")

	m = press(m, "C")
	assert.False(t, m.tasks.AllCompleted())
	assert.Len(t, m.tasks.Incomplete(), 3)
	assert.False(t, m.tasks.Fetching())
}

func TestAppModel_MutationsRefusedWhileBusy(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	m = selectMessage(t, m, "Buy milk")

	// First toggle is in flight: its command has not run yet.
	next, cmd := m.Update(updateTaskRequestMsg{action: actionToggleCompleted, task: m.selectedRow().task})
	m = next.(appModel)
	require.NotNil(t, cmd)
	require.True(t, m.tasks.Fetching())

	svc.Calls = nil
	next, second := m.Update(removeTaskRequestMsg{id: m.selectedRow().task.ID})
	m = next.(appModel)
	assert.NotNil(t, second)
	assert.Equal(t, busyFlash, m.flash)
	next, _ = m.Update(keyMsg("r"))
	m = next.(appModel)
	assert.Equal(t, busyFlash, m.flash)

	m = settle(m, cmd)
	assert.Equal(t, []string{"UpdateTask"}, svc.Calls)
	assert.Equal(t, 4, m.tasks.Len())
}

func TestAppModel_EditDuringRefreshKeepsDraft(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	m = selectMessage(t, m, "Buy milk")

	m = press(m, "e")
	m = typeText(m, " now")

	// A scheduled refetch starts; its reply has not arrived yet.
	next, fetch := m.Update(refreshTickMsg{})
	m = next.(appModel)
	require.True(t, m.tasks.Fetching())

	svc.Calls = nil
	m = press(m, "enter")
	row := m.selectedRow()
	assert.True(t, row.editing)
	assert.Equal(t, "Buy milk now", row.input.Value())
	assert.Equal(t, busyFlash, m.flash)
	assert.Empty(t, svc.Calls)

	m = settle(m, fetch)
	m = press(m, "enter")
	assert.False(t, m.selectedRow().editing)
	assert.Equal(t, "Buy milk now", m.selectedRow().task.Message)
	assert.Equal(t, []string{"FetchTasks", "UpdateTask"}, svc.Calls)
}

func TestAppModel_EditFlow(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	m = selectMessage(t, m, "Buy milk")

	m = press(m, "e")
	row := m.selectedRow()
	require.True(t, row.editing)
	assert.Equal(t, "Buy milk", row.input.Value())

	// Keys go to the input, not to the list actions.
	m = typeText(m, " now")
	assert.True(t, m.selectedRow().editing)
	assert.Equal(t, 4, m.tasks.Len())

	m = press(m, "enter")
	assert.False(t, m.selectedRow().editing)
	assert.Equal(t, "Buy milk now", m.selectedRow().task.Message)
}

func TestAppModel_EditEscRestores(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	m = selectMessage(t, m, "Buy milk")

	m = press(m, "e")
	m = typeText(m, "!!")
	svc.Calls = nil
	m = press(m, "esc")

	row := m.selectedRow()
	assert.False(t, row.editing)
	assert.Equal(t, "Buy milk", row.newMessage)
	assert.Empty(t, svc.Calls)
}

func TestAppModel_EditStateSurvivesReconcile(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	m = selectMessage(t, m, "Buy milk")
	m = press(m, "e")
	id := m.selectedRow().task.ID

	m = send(m, tasksFetchedMsg{tasks: svc.Snapshot()})
	assert.True(t, m.rows[id].editing)
}

func TestAppModel_ClipboardCopiesMessage(t *testing.T) {
	var got string
	orig := writeClipboard
	writeClipboard = func(s string) error { got = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	m := startedModel(t, seeded())
	m = selectMessage(t, m, "Call mom")
	m = press(m, "y")
	assert.Equal(t, "Call mom", got)
	assert.Contains(t, m.flash, "Copied")
}

func TestAppModel_StateRoundTrip(t *testing.T) {
	dir := &store.StateDir{Dir: t.TempDir()}
	svc := seeded()

	m := newAppModel(context.Background(), Options{Service: svc, StateDir: dir})
	m = settle(m, m.Init())
	m = selectMessage(t, m, "Walk dog")
	m = press(m, "/")
	m = typeText(m, "walk")
	require.NoError(t, m.saveState())

	m2 := newAppModel(context.Background(), Options{Service: svc, StateDir: dir})
	m2 = settle(m2, m2.Init())
	assert.Equal(t, "walk", m2.filterInput.Value())
	assert.Equal(t, []string{"Walk dog"}, visibleMessages(m2))
	assert.Equal(t, "Walk dog", m2.selectedRow().task.Message)
}

func TestAppModel_QuitKeys(t *testing.T) {
	m := startedModel(t, seeded())
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// "q" while typing a filter is text.
	m = press(m, "/")
	m = typeText(m, "q")
	assert.Equal(t, "q", m.filterInput.Value())
}

func TestAppModel_ViewFitsWindow(t *testing.T) {
	m := startedModel(t, seeded())
	out := m.View()
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 24)
	assert.Contains(t, out, "Call mom")
	assert.Contains(t, out, "All tasks completed")

	m = press(m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keys")
	m = press(m, "esc")
	assert.False(t, m.showHelp)
}

func TestAppModel_TooLongMessageRejectedLocally(t *testing.T) {
	svc := seeded()
	m := startedModel(t, svc)
	svc.Calls = nil

	m.focus = focusCreate
	m.createInput.CharLimit = 0
	m.createInput.SetValue(strings.Repeat("a", model.MaxMessageLen+1))
	m = press(m, "enter")

	assert.Empty(t, svc.Calls)
	assert.True(t, m.flashError)
}
