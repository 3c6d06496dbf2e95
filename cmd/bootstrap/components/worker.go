package components

import (
	"context"
	"log/slog"

	"cinebook/internal/infra/schedule"
	"cinebook/internal/pkg/clock"
	"cinebook/internal/pkg/config"
	"cinebook/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweepSchedule,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		worker.NewExpiryTimers,
		worker.NewSweeper,
	),
	fx.Invoke(startWorkers),
)

// NewSweepSchedule prefers the shared redis schedule so that only one
// replica sweeps per interval.
func NewSweepSchedule(rdb *redis.Client, cfg config.Config, clk clock.Clock) worker.SweepSchedule {
	if rdb == nil {
		return schedule.NewLocalSchedule(clk)
	}
	return schedule.NewRedisSchedule(rdb, cfg.Redis.KeyPrefix)
}

func startWorkers(lc fx.Lifecycle, timers *worker.ExpiryTimers, sweeper *worker.Sweeper, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := timers.Rearm(ctx); err != nil {
				// the sweeper still catches every expired hold
				logger.Warn("failed to rearm expiry timers", "error", err)
			}
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := sweeper.Stop(ctx); err != nil {
				return err
			}
			return timers.Stop(ctx)
		},
	})
}
