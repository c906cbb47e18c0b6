// Package cache wraps the primary redis client with JSON values and traced calls.
package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"homeserve/infras/otel"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	clearBatchSize        = 100
)

// Nil is returned by Get on a miss.
const Nil = redis.Nil

type RedisCache interface {
	// Save stores value for ttl seconds. Strings are stored raw, anything else as JSON.
	Save(ctx context.Context, key string, value any, ttl int) (err error)
	// Get fills value from key. A miss wraps Nil.
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	// Clear deletes every key matching the glob pattern.
	Clear(ctx context.Context, pattern string) error
	// Incr bumps a counter that expires window seconds after its first increment.
	Incr(ctx context.Context, key string, window int) (int64, error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

func (c *redisCache) scope(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+op)
	scope.SetAttribute(otelCacheKeyAttribute, key)

	return ctx, scope
}

func (c *redisCache) Save(ctx context.Context, key string, value any, ttl int) (err error) {
	ctx, scope := c.scope(ctx, "Save", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	payload, err := encode(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal cache value")

		return err
	}

	if err = c.client.Set(ctx, key, payload, time.Duration(ttl)*time.Second).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set cache value")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("key", key).Int("ttl", ttl).Msg("cache value saved")

	return nil
}

func (c *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := c.scope(ctx, "Get", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	payload, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, Nil) {
			log.Error().Err(err).Str("key", key).Msg("failed to get cache value")
		}

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if s, ok := value.(*string); ok {
		*s = payload

		return nil
	}

	if err = json.Unmarshal([]byte(payload), value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal cache value")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := c.scope(ctx, "Delete", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = c.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete cache value")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

func (c *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := c.scope(ctx, "Clear", pattern)
	defer scope.End()
	defer scope.TraceIfError(&err)

	batch := make([]string, 0, clearBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			log.Error().Err(err).Str("pattern", pattern).Int("keys", len(batch)).Msg("failed to clear cache")

			return fmt.Errorf("failed to clear cache: %w", err)
		}

		batch = batch[:0]

		return nil
	}

	iter := c.client.Scan(ctx, 0, pattern, clearBatchSize).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())

		if len(batch) == clearBatchSize {
			if err = flush(); err != nil {
				return err
			}
		}
	}

	if err = iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	return flush()
}

func (c *redisCache) Incr(ctx context.Context, key string, window int) (count int64, err error) {
	ctx, scope := c.scope(ctx, "Incr", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	count, err = c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	if count == 1 {
		if err = c.client.Expire(ctx, key, time.Duration(window)*time.Second).Err(); err != nil {
			return count, fmt.Errorf("failed to set counter window: %w", err)
		}
	}

	return count, nil
}

func encode(value any) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return payload, nil
}
