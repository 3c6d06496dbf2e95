package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentGateway is the provider adapter. Amounts are in the smallest
// currency unit (paise for INR).
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*PaymentOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
	Refund(ctx context.Context, paymentID string, amount int64) (*RefundReceipt, error)
}

type PaymentOrder struct {
	OrderID  string
	Amount   int64
	Currency string
}

type RefundReceipt struct {
	ID     string
	Amount int64
	Status string
}

// TicketGenerator turns a payload into a redemption artifact reference.
type TicketGenerator interface {
	Generate(payload string) (string, error)
}

// ExpiryScheduler arms a best-effort expiry for one booking.
type ExpiryScheduler interface {
	Schedule(bookingID uuid.UUID, at time.Time)
}
