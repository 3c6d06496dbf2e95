package shared

import (
	"context"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic.
	// Repositories obtained from tx are bound to that transaction.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct reads for orchestration outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Showtimes() ShowtimeRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ExpiredPendingBookingIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	PendingBookingDeadlines(ctx context.Context, limit int) ([]BookingDeadline, error)
}

// ShowtimeRepository mutates seat inventory with conditional writes. LockByID
// takes the per-showtime row lock every seat mutation runs under.
type ShowtimeRepository interface {
	LockByID(ctx context.Context, id uuid.UUID) (*showtime.Showtime, error)
	InsertHold(ctx context.Context, showtimeID uuid.UUID, hold showtime.SeatHold) error
	MarkHoldBooked(ctx context.Context, showtimeID uuid.UUID, seat showtime.SeatID, bookingID uuid.UUID) (bool, error)
	DeleteHold(ctx context.Context, showtimeID uuid.UUID, seat showtime.SeatID, bookingID uuid.UUID) (bool, error)
	AdjustAvailable(ctx context.Context, showtimeID uuid.UUID, delta int) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *PaymentRecord) error
	FindByOrderID(ctx context.Context, orderID string) (*PaymentRecord, error)
	MarkCompleted(ctx context.Context, orderID, paymentID, signature string, at time.Time) error
	// LockCompletedByBookingID returns the captured payment of a booking.
	LockCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentRecord, error)
	MarkRefunded(ctx context.Context, id uuid.UUID, refundID string, at time.Time) error
}

type IdempotencyRepository interface {
	// TryInsert reports whether this call created the key.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key, userID uuid.UUID, bookingID uuid.UUID) error
	Delete(ctx context.Context, key, userID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
