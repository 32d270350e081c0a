package tui

import (
	"context"

	"scheduler-cli/internal/model"
	"scheduler-cli/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

// Each command performs exactly one service call and reports back with a message.
// The client applies its own per-call timeout; ctx only carries program shutdown.

func fetchTasksCmd(ctx context.Context, svc service.Service) tea.Cmd {
	return func() tea.Msg {
		tasks, err := svc.FetchTasks(ctx)
		return tasksFetchedMsg{tasks: tasks, err: err}
	}
}

func createTaskCmd(ctx context.Context, svc service.Service, message string) tea.Cmd {
	return func() tea.Msg {
		t, err := svc.CreateTask(ctx, message)
		return taskCreatedMsg{task: t, err: err}
	}
}

func updateTaskCmd(ctx context.Context, svc service.Service, action string, task model.Task) tea.Cmd {
	return func() tea.Msg {
		t, err := svc.UpdateTask(ctx, task)
		return taskUpdatedMsg{action: action, id: task.ID, task: t, err: err}
	}
}

func removeTaskCmd(ctx context.Context, svc service.Service, id string) tea.Cmd {
	return func() tea.Msg {
		return taskRemovedMsg{id: id, err: svc.RemoveTask(ctx, id)}
	}
}

func completeAllCmd(ctx context.Context, svc service.Service, pending []model.Task) tea.Cmd {
	return func() tea.Msg {
		tasks, err := svc.CompleteAllTasks(ctx, pending)
		return allCompletedMsg{tasks: tasks, err: err}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
