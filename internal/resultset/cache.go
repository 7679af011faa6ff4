package resultset

import (
	"context"
	"encoding/json"
	"time"

	"staff-console-go/pkg/logger"
)

// Cache is a typed view over a Store for one entity. Store failures are
// logged and treated as misses so a broken cache never fails a read.
type Cache[T any] struct {
	store  Store
	entity string
	ttl    time.Duration
	log    logger.Logger
}

func New[T any](store Store, entity string, ttl time.Duration, log logger.Logger) *Cache[T] {
	if store == nil {
		store = Noop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Cache[T]{store: store, entity: entity, ttl: ttl, log: log}
}

func (c *Cache[T]) Entity() string {
	return c.entity
}

func (c *Cache[T]) Read(ctx context.Context, key string) (T, bool) {
	var value T
	raw, ok, err := c.store.Get(ctx, c.entity, key)
	if err != nil {
		c.log.InternalError("resultset.read: store failed", err, "entity", c.entity, "key", key)
		return value, false
	}
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		c.log.InternalError("resultset.read: decode failed", err, "entity", c.entity, "key", key)
		return value, false
	}
	return value, true
}

func (c *Cache[T]) Write(ctx context.Context, key string, value T) {
	if c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.InternalError("resultset.write: encode failed", err, "entity", c.entity, "key", key)
		return
	}
	if err := c.store.Set(ctx, c.entity, key, raw, c.ttl); err != nil {
		c.log.InternalError("resultset.write: store failed", err, "entity", c.entity, "key", key)
	}
}

// Fetch returns the cached value for key, or loads, caches and returns it.
func (c *Cache[T]) Fetch(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Read(ctx, key); ok {
		return value, nil
	}
	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	c.Write(ctx, key, value)
	return value, nil
}

// Invalidate drops every cached result of the entity and its dependents.
func (c *Cache[T]) Invalidate(ctx context.Context) error {
	if err := InvalidateEntity(ctx, c.store, c.entity); err != nil {
		c.log.InternalError("resultset.invalidate: store failed", err, "entity", c.entity)
		return err
	}
	return nil
}
