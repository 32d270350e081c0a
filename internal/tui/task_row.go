package tui

import (
	"strings"

	"scheduler-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// taskRow is one list entry. It owns the edit state for its task and never
// mutates the task itself: every change is emitted as a request message for
// the container to send to the server.
type taskRow struct {
	task model.Task

	editing    bool
	newMessage string
	input      textinput.Model
}

func newTaskRow(t model.Task) *taskRow {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = model.MaxMessageLen
	in.Placeholder = "message"
	return &taskRow{task: t, newMessage: t.Message, input: in}
}

// FilterValue implements list.Item. Filtering happens in tasklist, not in the bubbles list.
func (r *taskRow) FilterValue() string { return r.task.Message }

func (r *taskRow) Title() string { return r.task.Message }

// setTask installs a reconciled record. A row that is being edited keeps its draft.
func (r *taskRow) setTask(t model.Task) {
	r.task = t
	if !r.editing {
		r.newMessage = t.Message
	}
}

func (r *taskRow) toggleCompleted() tea.Cmd {
	t := r.task
	t.Completed = !t.Completed
	return emit(updateTaskRequestMsg{action: actionToggleCompleted, task: t})
}

func (r *taskRow) toggleFavorite() tea.Cmd {
	t := r.task
	t.Favorite = !t.Favorite
	return emit(updateTaskRequestMsg{action: actionToggleFavorite, task: t})
}

func (r *taskRow) remove() tea.Cmd {
	return emit(removeTaskRequestMsg{id: r.task.ID})
}

// startEdit enters edit mode with the current message. While editing, keys
// go to update and only Accept commits.
func (r *taskRow) startEdit() tea.Cmd {
	return r.resumeEdit(r.task.Message)
}

// resumeEdit enters edit mode with draft in the input.
func (r *taskRow) resumeEdit(draft string) tea.Cmd {
	r.editing = true
	r.newMessage = draft
	r.input.SetValue(draft)
	r.input.CursorEnd()
	return r.input.Focus()
}

// commit leaves edit mode. An unchanged message sends nothing; an empty one keeps editing.
func (r *taskRow) commit() tea.Cmd {
	msg := model.NormalizeMessage(r.newMessage)
	if msg == r.task.Message {
		r.stopEditing()
		return nil
	}
	if msg == "" {
		return nil
	}
	t := r.task
	t.Message = msg
	r.stopEditing()
	r.newMessage = msg
	return emit(updateTaskRequestMsg{action: actionEdit, task: t})
}

func (r *taskRow) cancel() {
	r.stopEditing()
	r.newMessage = r.task.Message
}

func (r *taskRow) stopEditing() {
	r.editing = false
	r.input.Blur()
}

// update handles a key while the row is in edit mode.
func (r *taskRow) update(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Cancel):
		r.cancel()
		return nil
	case key.Matches(msg, keys.Accept):
		if strings.TrimSpace(r.input.Value()) == "" {
			return nil
		}
		return r.commit()
	}
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	r.newMessage = r.input.Value()
	return cmd
}
