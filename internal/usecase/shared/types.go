package shared

import (
	"time"

	"github.com/google/uuid"
)

type BookingDeadline struct {
	BookingID uuid.UUID
	ExpiresAt time.Time
}

type PaymentStatus string

const (
	PaymentCreated   PaymentStatus = "created"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentRecord belongs to the payment provider; the booking core links it
// to a booking, completes it on confirm and marks it refunded.
type PaymentRecord struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	UserID     uuid.UUID
	OrderID    string
	PaymentID  *string
	Signature  *string
	Amount     int64 // paise
	Currency   string
	Status     PaymentStatus
	RefundID   *string
	RefundedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          IdempotencyStatus
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
