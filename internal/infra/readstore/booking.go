package readstore

import (
	"context"
	"log/slog"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/infra"
	"cinebook/internal/infra/repository/converter"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"
	"cinebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadQueries interface {
	GetBooking(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Bookings, error)
	ListBookingsByUser(ctx context.Context, db sqlc.DBTX, arg sqlc.ListBookingsByUserParams) ([]sqlc.Bookings, error)
	ListBookingsByUserAfter(ctx context.Context, db sqlc.DBTX, arg sqlc.ListBookingsByUserAfterParams) ([]sqlc.Bookings, error)
}

type BookingReadStore struct {
	queries BookingReadQueries
	db      sqlc.DBTX
	logger  *slog.Logger
}

func NewBookingReadStore(queries BookingReadQueries, db sqlc.DBTX, logger *slog.Logger) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBooking(ctx, r.db, id)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to find booking by ID", err)
	}
	views, err := r.toViews([]sqlc.Bookings{row})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (r *BookingReadStore) FindByUserFirstPage(ctx context.Context, userID uuid.UUID, status *booking.Status, limit int32) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingsByUser(ctx, r.db, sqlc.ListBookingsByUserParams{
		UserID:   userID,
		Status:   statusParam(status),
		RowLimit: limit,
	})
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to find bookings first page", err)
	}
	return r.toViews(rows)
}

func (r *BookingReadStore) FindByUserKeyset(
	ctx context.Context,
	userID uuid.UUID,
	status *booking.Status,
	lastCreatedAt time.Time,
	lastID uuid.UUID,
	limit int32,
) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingsByUserAfter(ctx, r.db, sqlc.ListBookingsByUserAfterParams{
		UserID:         userID,
		Status:         statusParam(status),
		AfterCreatedAt: pgconv.TimeToPgtype(lastCreatedAt),
		AfterID:        lastID,
		RowLimit:       limit,
	})
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to find bookings keyset page", err)
	}
	return r.toViews(rows)
}

func (r *BookingReadStore) toViews(rows []sqlc.Bookings) ([]*queries.BookingView, error) {
	views := make([]*queries.BookingView, len(rows))
	for i, row := range rows {
		b, err := converter.BookingFromInfra(row)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid stored booking", err)
		}
		views[i] = queries.NewBookingView(b)
	}
	return views, nil
}

func statusParam(status *booking.Status) pgtype.Text {
	if status == nil {
		return pgtype.Text{}
	}
	return pgconv.StringToPgtype(status.String())
}
