package tui

import (
	"time"

	"scheduler-cli/internal/model"
)

type focus int

const (
	focusList focus = iota
	focusFilter
	focusCreate
)

// Requests emitted by task rows. The container decides whether to run them.

type updateTaskRequestMsg struct {
	action string
	task   model.Task
}

type removeTaskRequestMsg struct {
	id string
}

// Replies from the service, applied on the event loop.

type tasksFetchedMsg struct {
	tasks []model.Task
	err   error
}

type taskCreatedMsg struct {
	task model.Task
	err  error
}

type taskUpdatedMsg struct {
	action string
	id     string
	task   model.Task
	err    error
}

type taskRemovedMsg struct {
	id  string
	err error
}

type allCompletedMsg struct {
	tasks []model.Task
	err   error
}

type refreshTickMsg struct{ at time.Time }

type flashDoneMsg struct{ seq int }

// Actions carried by update requests; used in logs and flash text.
const (
	actionToggleCompleted = "toggle completed"
	actionToggleFavorite  = "toggle favorite"
	actionEdit            = "edit"
)
