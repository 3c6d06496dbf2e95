package commands

import (
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/pkg/config"
)

// IdempotencyLease bounds how long a processing key blocks retries.
type BookingPolicy struct {
	Hold             time.Duration
	MaxSeats         int
	Cancellation     booking.CancellationPolicy
	ShowLocation     *time.Location
	IdempotencyTTL   time.Duration
	IdempotencyLease time.Duration
	Currency         string
	PaymentKeyID     string
}

type SweepPolicy struct {
	Concurrency int
	BatchSize   int
}

func NewBookingPolicy(cfg config.Config) BookingPolicy {
	return BookingPolicy{
		Hold:     cfg.Booking.HoldDuration,
		MaxSeats: cfg.Booking.MaxSeatsPerBooking,
		Cancellation: booking.CancellationPolicy{
			Cutoff:        cfg.Booking.CancelCutoff,
			RefundPercent: cfg.Booking.RefundPercent,
		},
		ShowLocation:     cfg.Booking.ShowLocation(),
		IdempotencyTTL:   cfg.Booking.IdempotencyTTL,
		IdempotencyLease: cfg.Booking.IdempotencyLease,
		Currency:         cfg.Payment.Currency,
		PaymentKeyID:     cfg.Payment.KeyID,
	}
}

func NewSweepPolicy(cfg config.Config) SweepPolicy {
	return SweepPolicy{
		Concurrency: cfg.Booking.SweepConcurrency,
		BatchSize:   cfg.Booking.SweepBatchSize,
	}
}
