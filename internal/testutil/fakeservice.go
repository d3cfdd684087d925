// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  map[service.ID]service.Task
	order  []service.ID
	nextID int

	// Now stamps created and updated tasks. Defaults to time.Now.
	Now func() time.Time

	// UUIDs makes CreateTask assign uuid ids instead of sequential numbers.
	UUIDs bool

	// Calls counts invocations per method name.
	Calls map[string]int

	// Error injection for testing
	ListTasksErr     error
	GetTaskErr       error
	TasksByStatusErr error
	SearchTasksErr   error
	CreateTaskErr    error
	UpdateTaskErr    error
	DeleteTaskErr    error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:  make(map[service.ID]service.Task),
		nextID: 1,
		Now:    time.Now,
		Calls:  make(map[string]int),
	}
}

// AddTask seeds a task. Zero timestamps are filled in from Now.
func (f *FakeService) AddTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = service.Timestamp{Time: f.Now()}
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
	if _, exists := f.tasks[task.ID]; !exists {
		f.order = append(f.order, task.ID)
	}
	f.tasks[task.ID] = task
	if n, err := strconv.Atoi(string(task.ID)); err == nil && n >= f.nextID {
		f.nextID = n + 1
	}
}

// Task returns a stored task directly, bypassing call counting.
func (f *FakeService) Task(id service.ID) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	return t, ok
}

// CallCount returns how often method was called.
func (f *FakeService) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Calls[method]
}

func (f *FakeService) record(method string) {
	f.Calls[method]++
}

// all returns tasks in insertion order. Callers hold the lock.
func (f *FakeService) all() []service.Task {
	out := make([]service.Task, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.tasks[id])
	}
	return out
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.all(), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id service.ID) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTask")
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return service.Task{}, service.ErrNotFound
	}
	return t, nil
}

// TasksByStatus implements service.Service.
func (f *FakeService) TasksByStatus(ctx context.Context, status service.Status) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TasksByStatus")
	if f.TasksByStatusErr != nil {
		return nil, f.TasksByStatusErr
	}
	var out []service.Task
	for _, t := range f.all() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

// SearchTasks implements service.Service with a case-insensitive match on
// title and description.
func (f *FakeService) SearchTasks(ctx context.Context, keyword string) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SearchTasks")
	if f.SearchTasksErr != nil {
		return nil, f.SearchTasksErr
	}
	kw := strings.ToLower(keyword)
	var out []service.Task
	for _, t := range f.all() {
		if strings.Contains(strings.ToLower(t.Title), kw) || strings.Contains(strings.ToLower(t.Description), kw) {
			out = append(out, t)
		}
	}
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	var id service.ID
	if f.UUIDs {
		id = service.ID(uuid.NewString())
	} else {
		id = service.ID(strconv.Itoa(f.nextID))
		f.nextID++
	}
	now := service.Timestamp{Time: f.Now()}
	t := service.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks[id] = t
	f.order = append(f.order, id)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.ID, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	t, ok := f.tasks[id]
	if !ok {
		return service.Task{}, service.ErrNotFound
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Status = in.Status
	t.Priority = in.Priority
	t.DueDate = in.DueDate
	t.UpdatedAt = service.Timestamp{Time: f.Now()}
	f.tasks[id] = t
	return t, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	if _, ok := f.tasks[id]; !ok {
		return service.ErrNotFound
	}
	delete(f.tasks, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// IDs returns the stored ids sorted, for assertions.
func (f *FakeService) IDs() []service.ID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := make([]service.ID, 0, len(f.tasks))
	for id := range f.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
