package rediscache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "staff:resultset"

// ResultSetStore keeps result sets in Redis. Each entity has a generation
// counter that is part of every data key; invalidating an entity bumps the
// counter and leaves the old keys to expire.
type ResultSetStore struct {
	client *redis.Client
	prefix string
}

func NewResultSetStore(redisURL string) (*ResultSetStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &ResultSetStore{client: client, prefix: defaultPrefix}, nil
}

func (s *ResultSetStore) Get(ctx context.Context, entity, key string) ([]byte, bool, error) {
	gen, err := s.generation(ctx, entity)
	if err != nil {
		return nil, false, err
	}

	value, err := s.client.Get(ctx, s.dataKey(entity, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *ResultSetStore) Set(ctx context.Context, entity, key string, value []byte, ttl time.Duration) error {
	gen, err := s.generation(ctx, entity)
	if err != nil {
		return err
	}

	dataKey := s.dataKey(entity, gen, key)
	if ttl <= 0 {
		return s.client.Del(ctx, dataKey).Err()
	}
	return s.client.Set(ctx, dataKey, value, ttl).Err()
}

func (s *ResultSetStore) Invalidate(ctx context.Context, entity string) error {
	return s.client.Incr(ctx, s.generationKey(entity)).Err()
}

func (s *ResultSetStore) Close() error {
	return s.client.Close()
}

func (s *ResultSetStore) generation(ctx context.Context, entity string) (int64, error) {
	raw, err := s.client.Get(ctx, s.generationKey(entity)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt generation for %s: %w", entity, err)
	}
	return gen, nil
}

func (s *ResultSetStore) generationKey(entity string) string {
	return s.prefix + ":" + entity + ":gen"
}

func (s *ResultSetStore) dataKey(entity string, gen int64, key string) string {
	return s.prefix + ":" + entity + ":" + strconv.FormatInt(gen, 10) + ":" + key
}
