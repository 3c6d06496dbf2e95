//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingQueries struct {
	mock.Mock
}

func (m *MockBookingQueries) CreateBooking(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateBookingParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockBookingQueries) GetBooking(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Bookings, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(sqlc.Bookings), args.Error(1)
}

func (m *MockBookingQueries) GetBookingForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Bookings, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(sqlc.Bookings), args.Error(1)
}

func (m *MockBookingQueries) UpdateBooking(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateBookingParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingQueries) ListExpiredPendingBookingIDs(ctx context.Context, db sqlc.DBTX, arg sqlc.ListExpiredPendingBookingIDsParams) ([]uuid.UUID, error) {
	args := m.Called(ctx, db, arg)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *MockBookingQueries) ListPendingBookingDeadlines(ctx context.Context, db sqlc.DBTX, limit int32) ([]sqlc.ListPendingBookingDeadlinesRow, error) {
	args := m.Called(ctx, db, limit)
	rows, _ := args.Get(0).([]sqlc.ListPendingBookingDeadlinesRow)
	return rows, args.Error(1)
}

func cancelledBooking(t *testing.T, now time.Time) *booking.Booking {
	t.Helper()
	seats := []booking.Seat{
		{SeatID: "A1", Category: showtime.CategoryGold, Price: 185},
		{SeatID: "A2", Category: showtime.CategoryGold, Price: 185},
		{SeatID: "A3", Category: showtime.CategoryGold, Price: 185},
	}
	b, err := booking.NewBooking(booking.NewBookingParams{
		UserID:     uuid.New(),
		MovieID:    uuid.New(),
		TheatreID:  uuid.New(),
		ShowtimeID: uuid.New(),
		ShowsAt:    now.Add(5 * time.Hour),
		Seats:      seats,
		Hold:       15 * time.Minute,
	}, now)
	require.NoError(t, err)
	require.NoError(t, b.Confirm(now.Add(time.Minute), booking.PaymentRef{OrderID: "order_1", PaymentID: "pay_1"}))
	_, err = b.Cancel(now.Add(time.Hour), booking.DefaultCancellationPolicy())
	require.NoError(t, err)
	return b
}

func TestBookingRowRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	b := cancelledBooking(t, now)

	var stored sqlc.CreateBookingParams
	q := new(MockBookingQueries)
	q.On("CreateBooking", mock.Anything, mock.Anything, mock.AnythingOfType("sqlc.CreateBookingParams")).
		Run(func(args mock.Arguments) { stored = args.Get(2).(sqlc.CreateBookingParams) }).
		Return(nil)

	repo := NewBookingRepository(q, new(MockDBTX), discardLogger())
	require.NoError(t, repo.Create(context.Background(), b))

	q.On("GetBooking", mock.Anything, mock.Anything, b.ID()).Return(sqlc.Bookings(stored), nil)
	got, err := repo.FindByID(context.Background(), b.ID())
	require.NoError(t, err)

	assert.Equal(t, b.Seats(), got.Seats())
	assert.Equal(t, booking.StatusCancelled, got.Status())
	assert.Equal(t, b.Payment(), got.Payment())
	require.NotNil(t, got.Cancellation())
	assert.Equal(t, "499.5", got.Cancellation().RefundAmount.String())
	assert.Equal(t, booking.RefundPending, got.Cancellation().RefundStatus)
	assert.True(t, got.ShowsAt().Equal(b.ShowsAt()))
}

func TestUpdateBooking(t *testing.T) {
	now := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	b := cancelledBooking(t, now)

	t.Run("writes the refund as numeric", func(t *testing.T) {
		q := new(MockBookingQueries)
		q.On("UpdateBooking", mock.Anything, mock.Anything, mock.MatchedBy(func(p sqlc.UpdateBookingParams) bool {
			refund, err := pgconv.DecimalFromNumeric(p.RefundAmount)
			return err == nil && p.ID == b.ID() && p.Status == "cancelled" && p.RefundAmount.Valid &&
				refund.Equal(decimal.RequireFromString("499.5")) &&
				p.RefundStatus.String == "pending"
		})).Return(int64(1), nil)

		assert.NoError(t, NewBookingRepository(q, new(MockDBTX), discardLogger()).Update(context.Background(), b))
		q.AssertExpectations(t)
	})

	t.Run("missing row", func(t *testing.T) {
		q := new(MockBookingQueries)
		q.On("UpdateBooking", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

		err := NewBookingRepository(q, new(MockDBTX), discardLogger()).Update(context.Background(), b)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
