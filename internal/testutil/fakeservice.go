// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"scheduler-cli/internal/model"
	"scheduler-cli/internal/service"
)

// ErrNotFound is returned when a task ID is unknown.
var ErrNotFound = errors.New("not found")

var _ service.Service = (*FakeService)(nil)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []model.Task
	nextID int
	clock  time.Time

	// Calls records method names in call order.
	Calls []string

	// Error injection for testing
	FetchErr       error
	CreateErr      error
	UpdateErr      error
	RemoveErr      error
	CompleteAllErr error
}

// NewFakeService creates an empty FakeService with a fixed clock.
func NewFakeService() *FakeService {
	return &FakeService{clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// AddTask seeds a task and returns it. Each seeded task is one minute newer than the previous one.
func (f *FakeService) AddTask(message string, completed, favorite bool) model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.newTaskLocked(message)
	t.Completed = completed
	t.Favorite = favorite
	f.tasks = append(f.tasks, t)
	return t
}

// Snapshot returns a copy of the stored tasks.
func (f *FakeService) Snapshot() []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Task(nil), f.tasks...)
}

func (f *FakeService) newTaskLocked(message string) model.Task {
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	return model.Task{
		ID:      fmt.Sprintf("task-%d", f.nextID),
		Message: message,
		Created: f.clock,
	}
}

func (f *FakeService) record(name string) {
	f.Calls = append(f.Calls, name)
}

// FetchTasks implements service.Service.
func (f *FakeService) FetchTasks(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FetchTasks")
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return append([]model.Task(nil), f.tasks...), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, message string) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask")
	if f.CreateErr != nil {
		return model.Task{}, f.CreateErr
	}
	t := f.newTaskLocked(message)
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask")
	if f.UpdateErr != nil {
		return model.Task{}, f.UpdateErr
	}
	return f.updateLocked(task)
}

func (f *FakeService) updateLocked(task model.Task) (model.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == task.ID {
			task.Created = f.tasks[i].Created
			f.tasks[i] = task
			return task, nil
		}
	}
	return model.Task{}, fmt.Errorf("task %s: %w", task.ID, ErrNotFound)
}

// RemoveTask implements service.Service.
func (f *FakeService) RemoveTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RemoveTask")
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task %s: %w", id, ErrNotFound)
}

// CompleteAllTasks implements service.Service.
func (f *FakeService) CompleteAllTasks(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CompleteAllTasks")
	if f.CompleteAllErr != nil {
		return nil, f.CompleteAllErr
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		u, err := f.updateLocked(t)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
