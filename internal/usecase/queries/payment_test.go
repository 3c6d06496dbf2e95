//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinebook/internal/infra"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/queries"
	"cinebook/internal/usecase/shared"
	queriesmock "cinebook/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPaymentGetByID(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	paymentID := "pay_Q1"
	view := queries.NewPaymentRecordView(&shared.PaymentRecord{
		ID:        uuid.New(),
		BookingID: uuid.New(),
		UserID:    owner,
		OrderID:   "order_Q1",
		PaymentID: &paymentID,
		Amount:    40000,
		Currency:  "INR",
		Status:    shared.PaymentCompleted,
		CreatedAt: time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC),
	})

	testCases := []struct {
		name      string
		requester uuid.UUID
		isAdmin   bool
		setup     func(m *queriesmock.MockPaymentReadStore)
		wantErr   error
	}{
		{
			name:      "success: owner reads own payment",
			requester: owner,
			setup: func(m *queriesmock.MockPaymentReadStore) {
				m.EXPECT().FindByID(ctx, view.ID).Return(view, nil)
			},
		},
		{
			name:      "success: admin reads any payment",
			requester: uuid.New(),
			isAdmin:   true,
			setup: func(m *queriesmock.MockPaymentReadStore) {
				m.EXPECT().FindByID(ctx, view.ID).Return(view, nil)
			},
		},
		{
			name:      "error: another user",
			requester: uuid.New(),
			setup: func(m *queriesmock.MockPaymentReadStore) {
				m.EXPECT().FindByID(ctx, view.ID).Return(view, nil)
			},
			wantErr: errs.ErrForbidden,
		},
		{
			name:      "error: not found",
			requester: owner,
			setup: func(m *queriesmock.MockPaymentReadStore) {
				m.EXPECT().FindByID(ctx, view.ID).
					Return(nil, infra.WrapRepoErr(discard, infra.KindNotFound, "payment not found", nil))
			},
			wantErr: queries.ErrPaymentNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockPaymentReadStore(ctrl)
			tc.setup(store)

			got, err := queries.NewPaymentQueries(store).GetByID(ctx, view.ID, tc.requester, tc.isAdmin)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, got)
		})
	}
}

func TestPaymentListMine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success: history is capped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockPaymentReadStore(ctrl)
		rows := []*queries.PaymentRecordView{{ID: uuid.New(), UserID: userID, Status: string(shared.PaymentRefunded)}}
		store.EXPECT().FindByUser(ctx, userID, int32(50)).Return(rows, nil)

		got, err := queries.NewPaymentQueries(store).ListMine(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, rows, got)
	})

	t.Run("error: store failure is passed through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockPaymentReadStore(ctrl)
		boom := errors.New("pool closed")
		store.EXPECT().FindByUser(ctx, userID, int32(50)).Return(nil, boom)

		_, err := queries.NewPaymentQueries(store).ListMine(ctx, userID)
		assert.ErrorIs(t, err, boom)
	})
}
