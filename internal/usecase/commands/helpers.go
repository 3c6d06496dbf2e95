package commands

import (
	"context"
	"encoding/json"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
)

// Lock order is booking before showtime in every command that takes both.

func lockShowtime(ctx context.Context, tx shared.Tx, id uuid.UUID) (*showtime.Showtime, error) {
	st, err := tx.Showtimes().LockByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return st, nil
}

func lockOwnedBooking(ctx context.Context, tx shared.Tx, id, userID uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().LockByID(ctx, id)
	if err != nil {
		return nil, translateBookingErr(err)
	}
	if !b.IsOwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func translateBookingErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrBookingNotFound
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

func adjustAvailable(ctx context.Context, tx shared.Tx, showtimeID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	if err := tx.Showtimes().AdjustAvailable(ctx, showtimeID, delta); err != nil {
		if infra.IsKind(err, infra.KindConflict) || infra.IsKind(err, infra.KindCheckViolated) {
			return errs.Wrapf(showtime.ErrInventoryExceeded, "adjust by %d", delta)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// releaseSeats frees every hold the booking still owns. Seats already gone
// are skipped, so the counter only moves by what was actually released.
func releaseSeats(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	st, err := lockShowtime(ctx, tx, b.ShowtimeID())
	if err != nil {
		return err
	}

	released := 0
	for _, seat := range b.SeatIDs() {
		st.ReleaseHold(seat, b.ID())
		ok, err := tx.Showtimes().DeleteHold(ctx, st.ID(), seat, b.ID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if ok {
			released++
		}
	}
	return adjustAvailable(ctx, tx, st.ID(), released)
}

func createNotificationJob(ctx context.Context, tx shared.Tx, b *booking.Booking, topic string, now time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id":   b.ID(),
		"booking_code": b.Code().String(),
		"user_id":      b.UserID(),
		"status":       b.Status().String(),
		"type":         topic,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, "email", topic, payload, now)
}
