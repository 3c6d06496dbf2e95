package bootstrap

import (
	"context"
	"log/slog"

	"cinebook/internal/infra/db"
	"cinebook/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB connects eagerly so a bad DSN fails the boot, not the first booking.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"host", cfg.DB.Host,
		"database", cfg.DB.DBName,
		"max_conns", pool.Config().MaxConns,
	)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			stat := pool.Stat()
			logger.Info("database pool stats",
				"acquire_count", stat.AcquireCount(),
				"canceled_acquire_count", stat.CanceledAcquireCount(),
				"acquired_conns", stat.AcquiredConns(),
			)
			cleanup()
			return nil
		},
	})

	return pool, nil
}
