package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kstack-dev/content-service/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// Allow implements a fixed-window counter used to throttle one-time-code
// requests. The first hit in a window sets the expiry; subsequent hits only
// increment.
func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r == nil || r.Client == nil {
		// Without redis the limiter degrades to allow-all.
		return true, nil
	}

	counterKey := fmt.Sprintf("ratelimit:%s", key)
	count, err := r.Client.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.Client.Expire(ctx, counterKey, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}
