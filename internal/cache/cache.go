package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
)

// Cache memoizes each customer's recent conversation window in redis so
// repeat messages skip a database read. Redis failures are logged and
// reported as misses; the database remains the source of truth.
type Cache struct {
	client *redis.Client
	log    *zap.Logger
}

// New builds a Cache from config. When redis is disabled the returned Cache
// is a no-op: every read misses and writes are dropped.
func New(cfg config.RedisConfig, log *zap.Logger) *Cache {
	if !cfg.Enabled {
		return &Cache{log: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &Cache{client: client, log: log}
}

// Enabled reports whether a redis client is configured.
func (c *Cache) Enabled() bool { return c.client != nil }

// Ping reports redis connectivity for the health endpoint.
func (c *Cache) Ping(ctx context.Context) bool {
	if c.client == nil {
		return false
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.log.Warn("redis ping failed", zap.Error(err))
		return false
	}
	return true
}

// ContextKey is the key layout for one customer's memoized window.
func ContextKey(clientID, phoneNumber string) string {
	return "context:" + clientID + ":" + phoneNumber
}

// GetContext returns the memoized value for key. Misses, redis errors and
// the disabled state all report ok=false.
func (c *Cache) GetContext(ctx context.Context, key string) (string, bool) {
	if c.client == nil {
		return "", false
	}

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.log.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, true
}

// SetContext stores val under key for ttl. Failures are logged and dropped.
func (c *Cache) SetContext(ctx context.Context, key, val string, ttl time.Duration) {
	if c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		c.log.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the redis connection pool.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
