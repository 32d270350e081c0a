// Package tasklist holds the in-memory task collection shown by the scheduler.
//
// Every mutator applies a server-confirmed reply. Nothing here talks to the
// network, so a failed round trip simply never reaches these methods and the
// collection stays as it was.
package tasklist

import (
	"strings"

	"scheduler-cli/internal/model"
	"scheduler-cli/internal/taskutil"
)

type List struct {
	tasks          []model.Task
	fetching       bool
	newTaskMessage string
	filter         string
}

func New(tasks []model.Task) *List {
	l := &List{}
	l.ReplaceAll(tasks)
	return l
}

// Tasks returns the full grouped collection, ignoring the filter.
func (l *List) Tasks() []model.Task {
	return append([]model.Task(nil), l.tasks...)
}

func (l *List) Len() int { return len(l.tasks) }

func (l *List) Fetching() bool { return l.fetching }

func (l *List) SetFetching(v bool) { l.fetching = v }

func (l *List) NewTaskMessage() string { return l.newTaskMessage }

func (l *List) SetNewTaskMessage(s string) { l.newTaskMessage = s }

func (l *List) Filter() string { return l.filter }

// SetFilter stores the filter lowercased; matching is case-insensitive either way.
func (l *List) SetFilter(s string) { l.filter = strings.ToLower(s) }

// Visible returns the tasks matching the filter, in display order.
func (l *List) Visible() []model.Task {
	return taskutil.Filter(l.tasks, l.filter)
}

func (l *List) AllCompleted() bool { return taskutil.AllCompleted(l.tasks) }

func (l *List) Incomplete() []model.Task { return taskutil.Incomplete(l.tasks) }

func (l *List) Find(id string) (model.Task, bool) { return taskutil.FindByID(l.tasks, id) }

// ReplaceAll installs a freshly fetched collection. Duplicate IDs keep the first record.
func (l *List) ReplaceAll(tasks []model.Task) {
	seen := make(map[string]bool, len(tasks))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	l.tasks = taskutil.SortByGroup(out)
}

// ApplyCreated prepends the created task and clears the pending message.
func (l *List) ApplyCreated(t model.Task) {
	rest := make([]model.Task, 0, len(l.tasks)+1)
	rest = append(rest, t)
	for _, cur := range l.tasks {
		if cur.ID != t.ID {
			rest = append(rest, cur)
		}
	}
	l.tasks = taskutil.SortByGroup(rest)
	l.newTaskMessage = ""
}

// ApplyUpdated replaces the record with the same ID. Unknown IDs are ignored.
func (l *List) ApplyUpdated(updated ...model.Task) {
	byID := make(map[string]model.Task, len(updated))
	for _, t := range updated {
		byID[t.ID] = t
	}
	changed := false
	for i, cur := range l.tasks {
		if t, ok := byID[cur.ID]; ok {
			l.tasks[i] = t
			changed = true
		}
	}
	if changed {
		l.tasks = taskutil.SortByGroup(l.tasks)
	}
}

// ApplyRemoved drops exactly the task with the given ID.
func (l *List) ApplyRemoved(id string) {
	out := l.tasks[:0]
	for _, t := range l.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	l.tasks = out
}

// PrepareCompleteAll returns copies of the incomplete tasks with Completed set,
// ready to send to the server. Nil means there is nothing to do.
func (l *List) PrepareCompleteAll() []model.Task {
	pending := l.Incomplete()
	if len(pending) == 0 {
		return nil
	}
	for i := range pending {
		pending[i].Completed = true
	}
	return pending
}
