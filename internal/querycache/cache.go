// Package querycache caches query results under hierarchical keys with
// per-query staleness, request deduplication, retry and prefix
// invalidation after mutations.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/singleflight"

	"taskdeck/internal/logging"
)

// ErrDisabled is returned by Fetch when the query is disabled, e.g. because a
// required parameter is empty.
var ErrDisabled = errors.New("query disabled")

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = 30 * time.Second
)

// QueryOptions controls a single query.
type QueryOptions struct {
	// Disabled skips the query entirely; Fetch returns ErrDisabled.
	Disabled bool

	// Refetch ignores a fresh stored result. The new result is still stored.
	Refetch bool

	// StaleTime is how long a stored result is served without refetching.
	// Zero means every Fetch refetches.
	StaleTime time.Duration

	// Retry is how many times a failed fetch is retried.
	Retry int

	// RetryDelay returns the wait before retry n (0-based).
	// Defaults to DefaultRetryDelay.
	RetryDelay func(n int) time.Duration

	// ShouldRetry filters which errors are retried. Nil retries all.
	ShouldRetry func(error) bool
}

// DefaultRetryDelay doubles from one second up to thirty.
func DefaultRetryDelay(n int) time.Duration {
	if n > 5 {
		return maxRetryDelay
	}
	d := baseRetryDelay << n
	if d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

// EntryInfo describes a cached query.
type EntryInfo struct {
	Key       string
	UpdatedAt time.Time
	State     State
}

// Client coordinates queries and mutations over a Store.
type Client struct {
	store Store
	group singleflight.Group
	log   *log.Helper
	now   func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *Client) { c.log = log.NewHelper(logging.OrDiscard(logger)) }
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client over store.
func NewClient(store Store, opts ...Option) *Client {
	c := &Client{
		store: store,
		log:   log.NewHelper(logging.Discard()),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the result of the query identified by key. A fresh stored
// result is returned without calling fn. Otherwise fn runs once for all
// concurrent callers of the same key, with retries per opts, and its result
// is stored.
func Fetch[T any](ctx context.Context, c *Client, key Key, opts QueryOptions, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if opts.Disabled {
		return zero, ErrDisabled
	}

	k := key.String()
	if e, ok := c.lookup(k); ok && !opts.Refetch && e.State(c.now()) == StateFresh {
		var v T
		if err := json.Unmarshal(e.Data, &v); err == nil {
			c.log.Debugw("msg", "cache hit", "key", k)
			return v, nil
		}
		c.log.Debugw("msg", "unreadable cache entry, refetching", "key", k)
	}

	// The shared fetch outlives any single caller. Each caller still stops
	// waiting when its own ctx is done.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		v, err := runWithRetry(fetchCtx, opts, fn)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result of %s: %w", k, err)
		}
		c.save(Entry{
			Key:       k,
			Data:      data,
			UpdatedAt: c.now(),
			StaleTime: opts.StaleTime,
		})
		return data, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}
	if res.Shared {
		c.log.Debugw("msg", "deduplicated fetch", "key", k)
	}

	var v T
	if err := json.Unmarshal(res.Val.([]byte), &v); err != nil {
		return zero, fmt.Errorf("failed to decode result of %s: %w", k, err)
	}
	return v, nil
}

// Mutate runs fn once and, if it succeeds, invalidates every query under
// each of the given keys.
func Mutate[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), invalidate ...Key) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	for _, k := range invalidate {
		if _, err := c.Invalidate(k); err != nil {
			c.log.Warnw("msg", "cache invalidation failed", "key", k.String(), "err", err)
		}
	}
	return v, nil
}

// Invalidate marks every entry under prefix as invalidated so the next Fetch
// refetches it. It returns the number of entries marked.
func (c *Client) Invalidate(prefix Key) (int, error) {
	entries, err := c.matching(prefix)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.Invalidated {
			continue
		}
		e.Invalidated = true
		if err := c.store.Put(e); err != nil {
			return n, err
		}
		n++
	}
	c.log.Debugw("msg", "invalidated", "key", prefix.String(), "entries", n)
	return n, nil
}

// Entries lists every cached query with its state.
func (c *Client) Entries() ([]EntryInfo, error) {
	entries, err := c.store.Scan(Key{}.scanPrefix())
	if err != nil {
		return nil, err
	}
	now := c.now()
	out := make([]EntryInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryInfo{Key: e.Key, UpdatedAt: e.UpdatedAt, State: e.State(now)})
	}
	return out, nil
}

// Clear removes every cached query and returns how many were removed.
func (c *Client) Clear() (int, error) {
	entries, err := c.store.Scan(Key{}.scanPrefix())
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if err := c.store.Delete(e.Key); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

// Close closes the underlying store.
func (c *Client) Close() error {
	return c.store.Close()
}

func (c *Client) lookup(k string) (Entry, bool) {
	e, ok, err := c.store.Get(k)
	if err != nil {
		c.log.Debugw("msg", "cache read failed", "key", k, "err", err)
		return Entry{}, false
	}
	return e, ok
}

func (c *Client) save(e Entry) {
	if err := c.store.Put(e); err != nil {
		c.log.Warnw("msg", "cache write failed", "key", e.Key, "err", err)
	}
}

// matching returns the entry for prefix itself plus all its descendants.
func (c *Client) matching(prefix Key) ([]Entry, error) {
	var out []Entry
	if e, ok := c.lookup(prefix.String()); ok {
		out = append(out, e)
	}
	descendants, err := c.store.Scan(prefix.scanPrefix())
	if err != nil {
		return nil, err
	}
	for _, e := range descendants {
		if e.Key != prefix.String() {
			out = append(out, e)
		}
	}
	return out, nil
}

func runWithRetry[T any](ctx context.Context, opts QueryOptions, fn func(context.Context) (T, error)) (T, error) {
	delay := opts.RetryDelay
	if delay == nil {
		delay = DefaultRetryDelay
	}
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= opts.Retry || (opts.ShouldRetry != nil && !opts.ShouldRetry(err)) {
			return v, err
		}
		timer := time.NewTimer(delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return v, err
		case <-timer.C:
		}
	}
}
