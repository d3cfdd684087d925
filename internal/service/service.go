// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// Every call to the REST task API goes through this interface.
// Commands never talk HTTP directly.
type Service interface {
	// ListTasks returns all tasks (GET /tasks).
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task (GET /tasks/:id).
	// Returns ErrNotFound if the task does not exist.
	GetTask(ctx context.Context, id ID) (Task, error)

	// TasksByStatus returns tasks with the given status (GET /tasks/status/:status).
	TasksByStatus(ctx context.Context, status Status) ([]Task, error)

	// SearchTasks runs a server-side keyword search (GET /tasks/search?keyword=).
	SearchTasks(ctx context.Context, keyword string) ([]Task, error)

	// CreateTask creates a task and returns it as stored by the backend.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces the editable fields of a task.
	UpdateTask(ctx context.Context, id ID, in TaskInput) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id ID) error
}
