// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"

	"scheduler-cli/internal/model"
)

// Service is the task backend consumed by the TUI and the CLI.
// Implementations return server-confirmed records; callers reconcile local state from them.
type Service interface {
	// FetchTasks returns every task, in server order.
	FetchTasks(ctx context.Context) ([]model.Task, error)

	// CreateTask creates a task; the server assigns ID and Created.
	CreateTask(ctx context.Context, message string) (model.Task, error)

	// UpdateTask replaces a task by ID and returns the stored record.
	UpdateTask(ctx context.Context, task model.Task) (model.Task, error)

	// RemoveTask deletes a task by ID.
	RemoveTask(ctx context.Context, id string) error

	// CompleteAllTasks stores every given task (callers set Completed) and
	// returns the stored records. It fails as a whole if any update fails.
	CompleteAllTasks(ctx context.Context, tasks []model.Task) ([]model.Task, error)
}
