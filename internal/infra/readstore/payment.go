package readstore

import (
	"context"
	"log/slog"

	"cinebook/internal/infra"
	"cinebook/internal/infra/repository/converter"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentReadQueries interface {
	GetPayment(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Payments, error)
	ListPaymentsByUser(ctx context.Context, db sqlc.DBTX, arg sqlc.ListPaymentsByUserParams) ([]sqlc.Payments, error)
}

type PaymentReadStore struct {
	queries PaymentReadQueries
	db      sqlc.DBTX
	logger  *slog.Logger
}

func NewPaymentReadStore(queries PaymentReadQueries, db sqlc.DBTX, logger *slog.Logger) *PaymentReadStore {
	return &PaymentReadStore{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentRecordView, error) {
	row, err := r.queries.GetPayment(ctx, r.db, id)
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to find payment by ID", err)
	}
	return queries.NewPaymentRecordView(converter.PaymentFromInfra(row)), nil
}

func (r *PaymentReadStore) FindByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.PaymentRecordView, error) {
	rows, err := r.queries.ListPaymentsByUser(ctx, r.db, sqlc.ListPaymentsByUserParams{UserID: userID, Limit: limit})
	if err != nil {
		return nil, infra.ClassifyPgErr(r.logger, "failed to list payments", err)
	}
	views := make([]*queries.PaymentRecordView, len(rows))
	for i, row := range rows {
		views[i] = queries.NewPaymentRecordView(converter.PaymentFromInfra(row))
	}
	return views, nil
}
