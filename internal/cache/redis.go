package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"todolist/internal/config"
	"todolist/pkg/logger"
)

const todosCacheKey = "todos:all"

// Cache holds encoded todo payloads in Redis. A nil *Cache is a valid, always-missing cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to cfg.RedisURL. It returns nil (cache disabled) when no URL is
// configured or the server does not answer a ping.
func New(ctx context.Context, cfg *config.Config) *Cache {
	if cfg.RedisURL == "" {
		logger.Info(ctx, "Redis cache disabled (REDIS_URL not set)")
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error(ctx, "Invalid REDIS_URL", "error", err, "url", cfg.RedisURL)
		return nil
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error(ctx, "Redis ping failed; cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	return NewWithClient(client, time.Duration(cfg.CacheTTL)*time.Second)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// TodoKey returns the key for a single todo.
func TodoKey(id int64) string {
	return "todo:" + strconv.FormatInt(id, 10)
}

// GetRawTodos returns the cached JSON list. Returns (nil, false) on miss or error.
func (c *Cache) GetRawTodos(ctx context.Context) ([]byte, bool) {
	return c.get(ctx, todosCacheKey)
}

// SetRawTodos stores the JSON list with the configured TTL.
func (c *Cache) SetRawTodos(ctx context.Context, b []byte) {
	c.set(ctx, todosCacheKey, b)
}

// GetRawTodo returns the cached JSON of one todo.
func (c *Cache) GetRawTodo(ctx context.Context, id int64) ([]byte, bool) {
	return c.get(ctx, TodoKey(id))
}

// SetRawTodo stores the JSON of one todo.
func (c *Cache) SetRawTodo(ctx context.Context, id int64, b []byte) {
	c.set(ctx, TodoKey(id), b)
}

// InvalidateTodo drops the list key and the key of the given todo so the next read goes to the store.
func (c *Cache) InvalidateTodo(ctx context.Context, id int64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, todosCacheKey, TodoKey(id)).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate todos failed", "error", err, "id", id)
	}
}

// Ping reports whether Redis is reachable. A disabled cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get failed", "error", err, "key", key)
		return nil, false
	}
	return b, true
}

func (c *Cache) set(ctx context.Context, key string, b []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set failed", "error", err, "key", key)
	}
}
