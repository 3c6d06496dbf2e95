//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/infra"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPaymentWriteQueries struct {
	mock.Mock
}

func (m *MockPaymentWriteQueries) CreatePayment(ctx context.Context, db sqlc.DBTX, arg sqlc.CreatePaymentParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockPaymentWriteQueries) GetPaymentByOrderID(ctx context.Context, db sqlc.DBTX, orderID string) (sqlc.Payments, error) {
	args := m.Called(ctx, db, orderID)
	return args.Get(0).(sqlc.Payments), args.Error(1)
}

func (m *MockPaymentWriteQueries) GetCompletedPaymentByBookingID(ctx context.Context, db sqlc.DBTX, bookingID uuid.UUID) (sqlc.Payments, error) {
	args := m.Called(ctx, db, bookingID)
	return args.Get(0).(sqlc.Payments), args.Error(1)
}

func (m *MockPaymentWriteQueries) CompletePayment(ctx context.Context, db sqlc.DBTX, arg sqlc.CompletePaymentParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentWriteQueries) MarkPaymentRefunded(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkPaymentRefundedParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func TestLockCompletedByBookingID(t *testing.T) {
	bookingID := uuid.New()

	t.Run("found", func(t *testing.T) {
		refundedAt := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
		q := new(MockPaymentWriteQueries)
		q.On("GetCompletedPaymentByBookingID", mock.Anything, mock.Anything, bookingID).Return(sqlc.Payments{
			ID:         uuid.New(),
			BookingID:  bookingID,
			OrderID:    "order_1",
			PaymentID:  pgconv.StringToPgtype("pay_1"),
			Amount:     55500,
			Currency:   "INR",
			Status:     "completed",
			RefundedAt: pgconv.TimeToPgtype(refundedAt),
		}, nil)

		p, err := NewPaymentRepository(q, new(MockDBTX), discardLogger()).LockCompletedByBookingID(context.Background(), bookingID)
		require.NoError(t, err)
		assert.Equal(t, shared.PaymentCompleted, p.Status)
		require.NotNil(t, p.PaymentID)
		assert.Equal(t, "pay_1", *p.PaymentID)
		assert.Nil(t, p.RefundID)
		require.NotNil(t, p.RefundedAt)
		assert.True(t, p.RefundedAt.Equal(refundedAt))
	})

	t.Run("no captured payment", func(t *testing.T) {
		q := new(MockPaymentWriteQueries)
		q.On("GetCompletedPaymentByBookingID", mock.Anything, mock.Anything, bookingID).Return(sqlc.Payments{}, pgx.ErrNoRows)

		_, err := NewPaymentRepository(q, new(MockDBTX), discardLogger()).LockCompletedByBookingID(context.Background(), bookingID)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestMarkRefunded(t *testing.T) {
	id := uuid.New()
	at := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	params := sqlc.MarkPaymentRefundedParams{
		ID:         id,
		RefundID:   pgconv.StringToPgtype("rfnd_1"),
		RefundedAt: pgconv.TimeToPgtype(at),
	}

	t.Run("completed payment", func(t *testing.T) {
		q := new(MockPaymentWriteQueries)
		q.On("MarkPaymentRefunded", mock.Anything, mock.Anything, params).Return(int64(1), nil)
		assert.NoError(t, NewPaymentRepository(q, new(MockDBTX), discardLogger()).MarkRefunded(context.Background(), id, "rfnd_1", at))
	})

	t.Run("already refunded", func(t *testing.T) {
		q := new(MockPaymentWriteQueries)
		q.On("MarkPaymentRefunded", mock.Anything, mock.Anything, params).Return(int64(0), nil)
		err := NewPaymentRepository(q, new(MockDBTX), discardLogger()).MarkRefunded(context.Background(), id, "rfnd_1", at)
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})
}
