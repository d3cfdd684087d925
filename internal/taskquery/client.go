// Package taskquery wires the task API into the query cache: which key each
// read is stored under, how long it stays fresh, and which keys each
// mutation invalidates.
package taskquery

import (
	"context"
	"time"

	"taskdeck/internal/querycache"
	"taskdeck/internal/service"
)

// MinSearchLength is the shortest keyword that triggers a search.
const MinSearchLength = 3

// Options tune the queries.
type Options struct {
	// ListStaleTime is how long the task list is served from cache.
	ListStaleTime time.Duration

	// Retry is how many times a failed read is retried.
	Retry int

	// RetryDelay overrides the backoff between retries (for testing).
	RetryDelay func(n int) time.Duration

	// BypassReads makes every read refetch from the backend. Mutations still
	// invalidate stored queries so later cached runs see them.
	BypassReads bool
}

// Client is a caching service.Service over a backend service.
type Client struct {
	backend service.Service
	cache   *querycache.Client
	opts    Options
}

var _ service.Service = (*Client)(nil)

// New wraps backend with cache.
func New(backend service.Service, cache *querycache.Client, opts Options) *Client {
	return &Client{backend: backend, cache: cache, opts: opts}
}

// Cache exposes the underlying query cache for inspection.
func (c *Client) Cache() *querycache.Client { return c.cache }

// Close releases the cache store.
func (c *Client) Close() error { return c.cache.Close() }

func (c *Client) query(staleTime time.Duration, disabled bool) querycache.QueryOptions {
	return querycache.QueryOptions{
		Disabled:    disabled,
		Refetch:     c.opts.BypassReads,
		StaleTime:   staleTime,
		Retry:       c.opts.Retry,
		RetryDelay:  c.opts.RetryDelay,
		ShouldRetry: func(err error) bool { return !service.IsPermanent(err) },
	}
}

// ListTasks returns all tasks. Filtering happens client-side, so the list is
// always cached under the unfiltered key.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	return querycache.Fetch(ctx, c.cache, Keys.List(Filters{}), c.query(c.opts.ListStaleTime, false), c.backend.ListTasks)
}

// GetTask returns a task; disabled for an empty id.
func (c *Client) GetTask(ctx context.Context, id service.ID) (service.Task, error) {
	return querycache.Fetch(ctx, c.cache, Keys.Detail(id), c.query(0, id == ""),
		func(ctx context.Context) (service.Task, error) { return c.backend.GetTask(ctx, id) })
}

// TasksByStatus returns tasks with status; disabled for an empty status.
func (c *Client) TasksByStatus(ctx context.Context, status service.Status) ([]service.Task, error) {
	return querycache.Fetch(ctx, c.cache, Keys.ByStatus(status), c.query(0, status == ""),
		func(ctx context.Context) ([]service.Task, error) { return c.backend.TasksByStatus(ctx, status) })
}

// SearchTasks runs a server-side search; disabled for keywords shorter than
// MinSearchLength.
func (c *Client) SearchTasks(ctx context.Context, keyword string) ([]service.Task, error) {
	disabled := len([]rune(keyword)) < MinSearchLength
	return querycache.Fetch(ctx, c.cache, Keys.Search(keyword), c.query(0, disabled),
		func(ctx context.Context) ([]service.Task, error) { return c.backend.SearchTasks(ctx, keyword) })
}

// CreateTask creates a task and invalidates the task lists.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	return querycache.Mutate(ctx, c.cache,
		func(ctx context.Context) (service.Task, error) { return c.backend.CreateTask(ctx, in) },
		Keys.Lists())
}

// UpdateTask updates a task and invalidates the task lists and its detail.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, in service.TaskInput) (service.Task, error) {
	return querycache.Mutate(ctx, c.cache,
		func(ctx context.Context) (service.Task, error) { return c.backend.UpdateTask(ctx, id, in) },
		Keys.Lists(), Keys.Detail(id))
}

// DeleteTask deletes a task and invalidates the task lists.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	_, err := querycache.Mutate(ctx, c.cache,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, c.backend.DeleteTask(ctx, id) },
		Keys.Lists())
	return err
}
