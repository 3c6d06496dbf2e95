package bootstrap

import (
	"context"
	"log/slog"

	"cinebook/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
	),
)

// NewRedisClient returns nil when REDIS_ADDR is unset; the sweeper then
// falls back to an in-process schedule.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR not set, sweep schedule is process-local")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})

	return rdb, nil
}

// RedisPinger adapts the client to the health check interface.
type RedisPinger struct {
	rdb *redis.Client
}

func (p RedisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
