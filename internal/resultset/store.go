// Package resultset caches list and search responses per entity so that a
// write can invalidate every cached read of that entity at once.
package resultset

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const (
	EntityEmployees = "employees"
	EntityTeams     = "teams"

	KeyAll     = "all"
	KeyOptions = "options"
	KeyCount   = "count"
)

// dependents lists entities whose cached rows embed data from the key
// entity. Employee rows carry their team's name.
var dependents = map[string][]string{
	EntityTeams: {EntityEmployees},
}

// Store holds encoded result sets grouped by entity.
type Store interface {
	Get(ctx context.Context, entity, key string) ([]byte, bool, error)
	Set(ctx context.Context, entity, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, entity string) error
}

// QueryKey is the key of a search result. A blank query is the full list.
func QueryKey(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return KeyAll
	}
	return "q=" + query
}

// MaxKey is the key of a billable hours range result.
func MaxKey(maxHours int) string {
	return "max=" + strconv.Itoa(maxHours)
}

// InvalidateEntity drops every cached result of entity and of the entities
// that embed it.
func InvalidateEntity(ctx context.Context, store Store, entity string) error {
	if err := store.Invalidate(ctx, entity); err != nil {
		return err
	}
	for _, dependent := range dependents[entity] {
		if err := store.Invalidate(ctx, dependent); err != nil {
			return err
		}
	}
	return nil
}

type noopStore struct{}

// Noop is a Store that never holds anything.
func Noop() Store {
	return noopStore{}
}

func (noopStore) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (noopStore) Set(context.Context, string, string, []byte, time.Duration) error {
	return nil
}

func (noopStore) Invalidate(context.Context, string) error {
	return nil
}
