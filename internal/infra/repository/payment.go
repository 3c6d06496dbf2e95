package repository

import (
	"context"
	"log/slog"
	"time"

	"cinebook/internal/infra"
	"cinebook/internal/infra/repository/converter"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentWriteQueries interface {
	CreatePayment(ctx context.Context, db sqlc.DBTX, arg sqlc.CreatePaymentParams) error
	GetPaymentByOrderID(ctx context.Context, db sqlc.DBTX, orderID string) (sqlc.Payments, error)
	GetCompletedPaymentByBookingID(ctx context.Context, db sqlc.DBTX, bookingID uuid.UUID) (sqlc.Payments, error)
	CompletePayment(ctx context.Context, db sqlc.DBTX, arg sqlc.CompletePaymentParams) (int64, error)
	MarkPaymentRefunded(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkPaymentRefundedParams) (int64, error)
}

type PaymentRepository struct {
	queries PaymentWriteQueries
	db      sqlc.DBTX
	logger  *slog.Logger
}

func NewPaymentRepository(queries PaymentWriteQueries, db sqlc.DBTX, logger *slog.Logger) *PaymentRepository {
	return &PaymentRepository{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *shared.PaymentRecord) error {
	if err := r.queries.CreatePayment(ctx, r.db, converter.PaymentToInfra(p)); err != nil {
		return infra.ClassifyPgErr(r.logger, "failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*shared.PaymentRecord, error) {
	row, err := r.queries.GetPaymentByOrderID(ctx, r.db, orderID)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to find payment", err)
	}
	return converter.PaymentFromInfra(row), nil
}

func (r *PaymentRepository) LockCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (*shared.PaymentRecord, error) {
	row, err := r.queries.GetCompletedPaymentByBookingID(ctx, r.db, bookingID)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to find completed payment", err)
	}
	return converter.PaymentFromInfra(row), nil
}

func (r *PaymentRepository) MarkCompleted(ctx context.Context, orderID, paymentID, signature string, at time.Time) error {
	n, err := r.queries.CompletePayment(ctx, r.db, sqlc.CompletePaymentParams{
		OrderID:   orderID,
		PaymentID: pgconv.StringToPgtype(paymentID),
		Signature: pgconv.StringToPgtype(signature),
		UpdatedAt: pgconv.TimeToPgtype(at),
	})
	if err != nil {
		return infra.ClassifyPgErr(r.logger, "failed to complete payment", err)
	}
	if n == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConflict, "payment not in created state: "+orderID, nil)
	}
	return nil
}

func (r *PaymentRepository) MarkRefunded(ctx context.Context, id uuid.UUID, refundID string, at time.Time) error {
	n, err := r.queries.MarkPaymentRefunded(ctx, r.db, sqlc.MarkPaymentRefundedParams{
		ID:         id,
		RefundID:   pgconv.StringToPgtype(refundID),
		RefundedAt: pgconv.TimeToPgtype(at),
	})
	if err != nil {
		return infra.ClassifyPgErr(r.logger, "failed to mark payment refunded", err)
	}
	if n == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConflict, "payment not in completed state: "+id.String(), nil)
	}
	return nil
}
