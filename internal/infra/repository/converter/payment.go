package converter

import (
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"
	"cinebook/internal/usecase/shared"
)

func PaymentToInfra(p *shared.PaymentRecord) sqlc.CreatePaymentParams {
	return sqlc.CreatePaymentParams{
		ID:        p.ID,
		BookingID: p.BookingID,
		UserID:    p.UserID,
		OrderID:   p.OrderID,
		PaymentID: pgconv.StringPtrToPgtype(p.PaymentID),
		Signature: pgconv.StringPtrToPgtype(p.Signature),
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    string(p.Status),
		CreatedAt: pgconv.TimeToPgtype(p.CreatedAt),
		UpdatedAt: pgconv.TimeToPgtype(p.UpdatedAt),
	}
}

func PaymentFromInfra(row sqlc.Payments) *shared.PaymentRecord {
	return &shared.PaymentRecord{
		ID:         row.ID,
		BookingID:  row.BookingID,
		UserID:     row.UserID,
		OrderID:    row.OrderID,
		PaymentID:  pgconv.StringPtrFromPgtype(row.PaymentID),
		Signature:  pgconv.StringPtrFromPgtype(row.Signature),
		Amount:     row.Amount,
		Currency:   row.Currency,
		Status:     shared.PaymentStatus(row.Status),
		RefundID:   pgconv.StringPtrFromPgtype(row.RefundID),
		RefundedAt: pgconv.TimePtrFromPgtype(row.RefundedAt),
		CreatedAt:  pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:  pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
