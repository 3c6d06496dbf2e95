package repository

import (
	"context"
	"log/slog"

	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra"
	"cinebook/internal/infra/repository/converter"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ShowtimeQueries interface {
	GetShowtime(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Showtimes, error)
	GetShowtimeForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Showtimes, error)
	ListShowtimePrices(ctx context.Context, db sqlc.DBTX, showtimeID uuid.UUID) ([]sqlc.ShowtimePrices, error)
	ListShowtimeSeats(ctx context.Context, db sqlc.DBTX, showtimeID uuid.UUID) ([]sqlc.ListShowtimeSeatsRow, error)
	InsertSeatHold(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertSeatHoldParams) (int64, error)
	MarkSeatBooked(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkSeatBookedParams) (int64, error)
	DeleteSeatHold(ctx context.Context, db sqlc.DBTX, arg sqlc.DeleteSeatHoldParams) (int64, error)
	AdjustAvailableSeats(ctx context.Context, db sqlc.DBTX, arg sqlc.AdjustAvailableSeatsParams) (int64, error)
}

type ShowtimeRepository struct {
	queries ShowtimeQueries
	db      sqlc.DBTX
	logger  *slog.Logger
}

func NewShowtimeRepository(queries ShowtimeQueries, db sqlc.DBTX, logger *slog.Logger) *ShowtimeRepository {
	return &ShowtimeRepository{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

// LockByID takes the showtime row lock for the rest of the transaction.
func (r *ShowtimeRepository) LockByID(ctx context.Context, id uuid.UUID) (*showtime.Showtime, error) {
	row, err := r.queries.GetShowtimeForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to lock showtime", err)
	}
	return r.assemble(ctx, row)
}

func (r *ShowtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*showtime.Showtime, error) {
	row, err := r.queries.GetShowtime(ctx, r.db, id)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to find showtime", err)
	}
	return r.assemble(ctx, row)
}

func (r *ShowtimeRepository) assemble(ctx context.Context, row sqlc.Showtimes) (*showtime.Showtime, error) {
	prices, err := r.queries.ListShowtimePrices(ctx, r.db, row.ID)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to query showtime prices", err)
	}
	seats, err := r.queries.ListShowtimeSeats(ctx, r.db, row.ID)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to query showtime seats", err)
	}

	st, err := converter.ShowtimeFromInfra(row, prices, seats)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid stored showtime", err)
	}
	return st, nil
}

func (r *ShowtimeRepository) InsertHold(ctx context.Context, showtimeID uuid.UUID, hold showtime.SeatHold) error {
	n, err := r.queries.InsertSeatHold(ctx, r.db, converter.HoldToInfra(showtimeID, hold))
	if err != nil {
		return infra.ClassifyPgErr(r.logger, "failed to insert seat hold", err)
	}
	if n == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConflict, "seat already held: "+hold.SeatID.String(), nil)
	}
	return nil
}

func (r *ShowtimeRepository) MarkHoldBooked(ctx context.Context, showtimeID uuid.UUID, seat showtime.SeatID, bookingID uuid.UUID) (bool, error) {
	n, err := r.queries.MarkSeatBooked(ctx, r.db, sqlc.MarkSeatBookedParams{
		ShowtimeID: showtimeID,
		SeatID:     seat.String(),
		BookingID:  pgconv.UUIDToPgtype(bookingID),
	})
	if err != nil {
		return false, infra.ClassifyPgErr(r.logger, "failed to mark seat booked", err)
	}
	return n == 1, nil
}

func (r *ShowtimeRepository) DeleteHold(ctx context.Context, showtimeID uuid.UUID, seat showtime.SeatID, bookingID uuid.UUID) (bool, error) {
	n, err := r.queries.DeleteSeatHold(ctx, r.db, sqlc.DeleteSeatHoldParams{
		ShowtimeID: showtimeID,
		SeatID:     seat.String(),
		BookingID:  pgconv.UUIDToPgtype(bookingID),
	})
	if err != nil {
		return false, infra.ClassifyPgErr(r.logger, "failed to release seat hold", err)
	}
	return n == 1, nil
}

// AdjustAvailable refuses a delta that would leave the counter outside
// [0, total_seats].
func (r *ShowtimeRepository) AdjustAvailable(ctx context.Context, showtimeID uuid.UUID, delta int) error {
	n, err := r.queries.AdjustAvailableSeats(ctx, r.db, sqlc.AdjustAvailableSeatsParams{
		Delta: int32(delta), // #nosec G115 -- bounded by the per-booking seat limit
		ID:    showtimeID,
	})
	if err != nil {
		return infra.ClassifyPgErr(r.logger, "failed to adjust available seats", err)
	}
	if n == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConflict, "available seats out of range", nil)
	}
	return nil
}
