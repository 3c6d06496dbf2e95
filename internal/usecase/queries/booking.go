package queries

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking.go -package=queriesmock

import (
	"context"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra"
	"cinebook/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserFirstPage(ctx context.Context, userID uuid.UUID, status *booking.Status, limit int32) ([]*BookingView, error)
	FindByUserKeyset(ctx context.Context, userID uuid.UUID, status *booking.Status, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*BookingView, error)
}

type ShowtimeReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*showtime.Showtime, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters BookingFilters, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	CheckAvailability(ctx context.Context, showtimeID uuid.UUID) (*AvailabilityView, error)
}

type bookingQueriesImpl struct {
	bookings  BookingReadStore
	showtimes ShowtimeReadStore
}

func NewBookingQueries(bookings BookingReadStore, showtimes ShowtimeReadStore) BookingQueries {
	return &bookingQueriesImpl{bookings: bookings, showtimes: showtimes}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*BookingView, error) {
	v, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if v.UserID != requesterID {
		return nil, errs.ErrForbidden
	}
	return v, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, filters BookingFilters, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, nil, ErrInvalidStatus
	}

	limit = ValidateLimit(limit)
	var rows []*BookingView
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.bookings.FindByUserFirstPage(ctx, userID, filters.Status, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.bookings.FindByUserKeyset(ctx, userID, filters.Status, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (q *bookingQueriesImpl) CheckAvailability(ctx context.Context, showtimeID uuid.UUID) (*AvailabilityView, error) {
	st, err := q.showtimes.FindByID(ctx, showtimeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return NewAvailabilityView(st), nil
}
