package console

import (
	"context"
	"errors"
	"strings"
	"sync"

	"staff-console-go/internal/notify"
	"staff-console-go/internal/resultset"
	"staff-console-go/pkg/logger"
)

const (
	msgDeleted      = "Deleted successfully."
	msgDeleteFailed = "Oops! Something went wrong"
)

// Source is the backend a list reads from. SearchByRange is nil for entities
// without an hours filter.
type Source[T any] struct {
	Entity        string
	List          func(ctx context.Context) ([]T, error)
	Search        func(ctx context.Context, query string) ([]T, error)
	SearchByRange func(ctx context.Context, maxHours int) ([]T, error)
	Delete        func(ctx context.Context, id int64) error
}

// HoursRange bounds the values ApplyRange accepts.
type HoursRange struct {
	Min int
	Max int
}

func (r HoursRange) Clamp(value int) int {
	if value < r.Min {
		return r.Min
	}
	if value > r.Max {
		return r.Max
	}
	return value
}

type read[T any] struct {
	key  string
	load func(ctx context.Context) ([]T, error)
}

type ListController[T any] struct {
	source Source[T]
	cache  *resultset.Cache[[]T]
	notify notify.Sink
	log    logger.Logger
	hours  HoursRange

	mu        sync.Mutex
	rows      []T
	pending   string
	maxHours  *int
	seq       uint64
	last      *read[T]
	confirmID *int64
	deleting  bool
}

func NewListController[T any](source Source[T], cache *resultset.Cache[[]T], sink notify.Sink, log logger.Logger, hours HoursRange) *ListController[T] {
	if cache == nil {
		cache = resultset.New[[]T](resultset.Noop(), source.Entity, 0, log)
	}
	if sink == nil {
		sink = notify.Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ListController[T]{
		source: source,
		cache:  cache,
		notify: sink,
		log:    log,
		hours:  hours,
	}
}

func (c *ListController[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]T, len(c.rows))
	copy(rows, c.rows)
	return rows
}

func (c *ListController[T]) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *ListController[T]) MaxHours() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxHours == nil {
		return 0, false
	}
	return *c.maxHours, true
}

// Refresh reads the full list.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	return c.issue(ctx, read[T]{key: resultset.KeyAll, load: c.source.List})
}

// Type updates the pending search text. Clearing it shows the full list
// again without waiting for Commit.
func (c *ListController[T]) Type(ctx context.Context, text string) error {
	c.mu.Lock()
	c.pending = text
	c.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return c.Refresh(ctx)
	}
	return nil
}

// Commit searches for the pending text.
func (c *ListController[T]) Commit(ctx context.Context) error {
	query := strings.TrimSpace(c.Pending())
	if query == "" {
		return c.Refresh(ctx)
	}
	return c.issue(ctx, read[T]{
		key: resultset.QueryKey(query),
		load: func(ctx context.Context) ([]T, error) {
			return c.source.Search(ctx, query)
		},
	})
}

// ApplyRange shows rows with at most maxHours billable hours, after clamping
// maxHours into the configured range.
func (c *ListController[T]) ApplyRange(ctx context.Context, maxHours int) error {
	if c.source.SearchByRange == nil {
		return ErrRangeUnsupported
	}
	maxHours = c.hours.Clamp(maxHours)

	c.mu.Lock()
	c.maxHours = &maxHours
	c.mu.Unlock()

	return c.issue(ctx, read[T]{
		key: resultset.MaxKey(maxHours),
		load: func(ctx context.Context) ([]T, error) {
			return c.source.SearchByRange(ctx, maxHours)
		},
	})
}

// issue runs r and applies its rows unless a newer read was issued in the
// meantime. Failures are logged and leave the current rows in place.
func (c *ListController[T]) issue(ctx context.Context, r read[T]) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.last = &r
	c.mu.Unlock()

	rows, err := c.cache.Fetch(ctx, r.key, r.load)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return ErrStaleResult
	}
	if err != nil {
		c.log.InternalError("console.list.read: fetch failed", err, "entity", c.source.Entity, "key", r.key)
		return err
	}
	c.rows = rows
	return nil
}

// RequestDelete opens the confirmation for id.
func (c *ListController[T]) RequestDelete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleting {
		return ErrDeleteInFlight
	}
	c.confirmID = &id
	return nil
}

// PendingDelete is the id awaiting confirmation, if any.
func (c *ListController[T]) PendingDelete() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirmID == nil {
		return 0, false
	}
	return *c.confirmID, true
}

func (c *ListController[T]) Deleting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleting
}

// CancelDelete closes the confirmation. It is refused while the delete runs.
func (c *ListController[T]) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleting {
		return ErrDeleteInFlight
	}
	c.confirmID = nil
	return nil
}

// ConfirmDelete deletes the pending id. The confirmation closes whether or
// not the delete succeeded; on success the current view is read again.
func (c *ListController[T]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.deleting {
		c.mu.Unlock()
		return ErrDeleteInFlight
	}
	if c.confirmID == nil {
		c.mu.Unlock()
		return ErrNoPendingDelete
	}
	id := *c.confirmID
	c.deleting = true
	c.mu.Unlock()

	err := c.source.Delete(ctx, id)
	if err == nil {
		if invErr := c.cache.Invalidate(ctx); invErr != nil {
			c.log.InternalError("console.list.delete: invalidate failed", invErr, "entity", c.source.Entity)
		}
	}

	c.mu.Lock()
	c.deleting = false
	c.confirmID = nil
	last := c.last
	c.mu.Unlock()

	if err != nil {
		c.log.BusinessError("console.list.delete: delete failed", err, "entity", c.source.Entity, "id", id)
		c.notify.Notify(ctx, notify.Event{Kind: notify.KindError, Entity: c.source.Entity, Action: notify.ActionDeleted, ID: id, Message: msgDeleteFailed})
		return err
	}

	c.notify.Notify(ctx, notify.Event{Kind: notify.KindSuccess, Entity: c.source.Entity, Action: notify.ActionDeleted, ID: id, Message: msgDeleted})
	if last != nil {
		if err := c.issue(ctx, *last); err != nil && !errors.Is(err, ErrStaleResult) {
			c.log.Warn("console.list.delete: reload failed", "entity", c.source.Entity, "err", err)
		}
	}
	return nil
}
