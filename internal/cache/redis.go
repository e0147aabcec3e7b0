package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/etymograph/dailyverse/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dailyWordsKey = "daily_words"
	snapshotTTL   = 48 * time.Hour
)

type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisCache(redisURL string, logger *zap.Logger) (*RedisCache, error) {
	// redis://host:port or redis://host:port/db
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis", zap.String("addr", opts.Addr))
	return &RedisCache{client: client, logger: logger.Named("redis")}, nil
}

// LoadSnapshot returns the last mirrored daily word set, or nil if there is
// none.
func (c *RedisCache) LoadSnapshot(ctx context.Context) (*model.DailyWords, error) {
	data, err := c.client.Get(ctx, dailyWordsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot model.DailyWords
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

func (c *RedisCache) SaveSnapshot(ctx context.Context, snapshot model.DailyWords) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dailyWordsKey, data, snapshotTTL).Err()
}

// Incr increments a counter. The expiry is set when the counter is created so
// the window does not slide.
func (c *RedisCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func (c *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.client.TTL(ctx, key).Result()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
