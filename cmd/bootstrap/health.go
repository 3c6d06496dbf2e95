package bootstrap

import (
	"cinebook/internal/handler/api"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HealthModule = fx.Module("health",
	fx.Provide(
		NewHealthChecks,
	),
)

func NewHealthChecks(pool *pgxpool.Pool, rdb *redis.Client) map[string]api.Pinger {
	checks := map[string]api.Pinger{"postgres": pool}
	if rdb != nil {
		checks["redis"] = RedisPinger{rdb: rdb}
	}
	return checks
}
