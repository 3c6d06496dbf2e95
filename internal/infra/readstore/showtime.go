package readstore

import (
	"context"
	"log/slog"

	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra/repository"
	sqlc "cinebook/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

// ShowtimeReadStore reads showtimes without taking the row lock.
type ShowtimeReadStore struct {
	repo *repository.ShowtimeRepository
}

func NewShowtimeReadStore(queries repository.ShowtimeQueries, db sqlc.DBTX, logger *slog.Logger) *ShowtimeReadStore {
	return &ShowtimeReadStore{repo: repository.NewShowtimeRepository(queries, db, logger)}
}

func (r *ShowtimeReadStore) FindByID(ctx context.Context, id uuid.UUID) (*showtime.Showtime, error) {
	return r.repo.FindByID(ctx, id)
}
