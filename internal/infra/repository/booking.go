package repository

import (
	"context"
	"log/slog"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/infra"
	"cinebook/internal/infra/repository/converter"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingQueries interface {
	CreateBooking(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateBookingParams) error
	GetBooking(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Bookings, error)
	GetBookingForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Bookings, error)
	UpdateBooking(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateBookingParams) (int64, error)
	ListExpiredPendingBookingIDs(ctx context.Context, db sqlc.DBTX, arg sqlc.ListExpiredPendingBookingIDsParams) ([]uuid.UUID, error)
	ListPendingBookingDeadlines(ctx context.Context, db sqlc.DBTX, limit int32) ([]sqlc.ListPendingBookingDeadlinesRow, error)
}

type BookingRepository struct {
	queries BookingQueries
	db      sqlc.DBTX
	logger  *slog.Logger
}

func NewBookingRepository(queries BookingQueries, db sqlc.DBTX, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	params, err := converter.BookingToInfra(b)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode booking", err)
	}
	if err := r.queries.CreateBooking(ctx, r.db, params); err != nil {
		return infra.ClassifyPgErr(r.logger, "failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to lock booking", err)
	}
	return r.toDomain(row)
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBooking(ctx, r.db, id)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to find booking", err)
	}
	return r.toDomain(row)
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	n, err := r.queries.UpdateBooking(ctx, r.db, converter.BookingUpdateToInfra(b))
	if err != nil {
		return infra.ClassifyPgErr(r.logger, "failed to update booking", err)
	}
	if n == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

func (r *BookingRepository) ExpiredPendingIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	ids, err := r.queries.ListExpiredPendingBookingIDs(ctx, r.db, sqlc.ListExpiredPendingBookingIDsParams{
		ExpiresAt: pgconv.TimeToPgtype(now),
		Limit:     int32(limit), // #nosec G115 -- batch sizes are small
	})
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to list expired bookings", err)
	}
	return ids, nil
}

func (r *BookingRepository) PendingDeadlines(ctx context.Context, limit int) ([]shared.BookingDeadline, error) {
	rows, err := r.queries.ListPendingBookingDeadlines(ctx, r.db, int32(limit)) // #nosec G115 -- batch sizes are small
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to list pending bookings", err)
	}
	deadlines := make([]shared.BookingDeadline, len(rows))
	for i, row := range rows {
		deadlines[i] = shared.BookingDeadline{BookingID: row.ID, ExpiresAt: pgconv.TimeFromPgtype(row.ExpiresAt)}
	}
	return deadlines, nil
}

func (r *BookingRepository) toDomain(row sqlc.Bookings) (*booking.Booking, error) {
	b, err := converter.BookingFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid stored booking", err)
	}
	return b, nil
}
