package queries

//go:generate mockgen -source=payment.go -destination=../../../tests/mock/queries/payment.go -package=queriesmock

import (
	"context"

	"cinebook/internal/infra"
	"cinebook/internal/pkg/errs"

	"github.com/google/uuid"
)

const paymentHistoryLimit = 50

type PaymentReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRecordView, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*PaymentRecordView, error)
}

type PaymentQueries interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]*PaymentRecordView, error)
	// GetByID lets admins read any payment; others only their own.
	GetByID(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*PaymentRecordView, error)
}

type paymentQueriesImpl struct {
	payments PaymentReadStore
}

func NewPaymentQueries(payments PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{payments: payments}
}

func (q *paymentQueriesImpl) ListMine(ctx context.Context, userID uuid.UUID) ([]*PaymentRecordView, error) {
	return q.payments.FindByUser(ctx, userID, paymentHistoryLimit)
}

func (q *paymentQueriesImpl) GetByID(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*PaymentRecordView, error) {
	v, err := q.payments.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if !isAdmin && v.UserID != requesterID {
		return nil, errs.ErrForbidden
	}
	return v, nil
}
