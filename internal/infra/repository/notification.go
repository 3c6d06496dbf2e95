package repository

import (
	"context"
	"log/slog"
	"time"

	"cinebook/internal/infra"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateNotificationJobParams) error
}

// NotificationRepository writes outbox rows; delivery happens elsewhere.
type NotificationRepository struct {
	queries NotificationWriteQueries
	db      sqlc.DBTX
	logger  *slog.Logger
}

func NewNotificationRepository(queries NotificationWriteQueries, db sqlc.DBTX, logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	err := r.queries.CreateNotificationJob(ctx, r.db, sqlc.CreateNotificationJobParams{
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   pgconv.TimeToPgtype(runAt),
	})
	if err != nil {
		return infra.ClassifyPgErr(r.logger, "failed to create notification job", err)
	}
	return nil
}
