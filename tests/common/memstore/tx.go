//go:build unit || e2e

package memstore

import (
	"context"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
)

type tx struct{ s *Store }

func (t *tx) Showtimes() shared.ShowtimeRepository         { return &showtimeRepo{s: t.s} }
func (t *tx) Bookings() shared.BookingRepository           { return &bookingRepo{s: t.s} }
func (t *tx) Payments() shared.PaymentRepository           { return &paymentRepo{s: t.s} }
func (t *tx) Idempotency() shared.IdempotencyRepository    { return &idempotencyRepo{s: t.s} }
func (t *tx) Notifications() shared.NotificationRepository { return &notificationRepo{s: t.s} }

type showtimeRepo struct{ s *Store }

func (r *showtimeRepo) row(id uuid.UUID) (*showtimeRow, error) {
	row, ok := r.s.st.showtimes[id]
	if !ok {
		return nil, infra.WrapRepoErr(r.s.logger, infra.KindNotFound, "showtime not found", nil)
	}
	return row, nil
}

func (r *showtimeRepo) LockByID(_ context.Context, id uuid.UUID) (*showtime.Showtime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Showtimes.LockByID"); err != nil {
		return nil, err
	}
	row, err := r.row(id)
	if err != nil {
		return nil, err
	}
	return row.build(), nil
}

func (r *showtimeRepo) InsertHold(_ context.Context, showtimeID uuid.UUID, hold showtime.SeatHold) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Showtimes.InsertHold"); err != nil {
		return err
	}
	row, err := r.row(showtimeID)
	if err != nil {
		return err
	}
	if existing, ok := row.holds[hold.SeatID]; ok && existing.Status.Holds() {
		return infra.WrapRepoErr(r.s.logger, infra.KindConflict, "seat already held: "+hold.SeatID.String(), nil)
	}
	row.holds[hold.SeatID] = hold
	return nil
}

func (r *showtimeRepo) MarkHoldBooked(_ context.Context, showtimeID uuid.UUID, seat showtime.SeatID, bookingID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Showtimes.MarkHoldBooked"); err != nil {
		return false, err
	}
	row, err := r.row(showtimeID)
	if err != nil {
		return false, err
	}
	h, ok := row.holds[seat]
	if !ok || h.BookingID != bookingID || h.Status != showtime.StatusBlocked {
		return false, nil
	}
	h.Status = showtime.StatusBooked
	row.holds[seat] = h
	return true, nil
}

func (r *showtimeRepo) DeleteHold(_ context.Context, showtimeID uuid.UUID, seat showtime.SeatID, bookingID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Showtimes.DeleteHold"); err != nil {
		return false, err
	}
	row, err := r.row(showtimeID)
	if err != nil {
		return false, err
	}
	h, ok := row.holds[seat]
	if !ok || h.BookingID != bookingID || !h.Status.Holds() {
		return false, nil
	}
	delete(row.holds, seat)
	return true, nil
}

func (r *showtimeRepo) AdjustAvailable(_ context.Context, showtimeID uuid.UUID, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Showtimes.AdjustAvailable"); err != nil {
		return err
	}
	row, err := r.row(showtimeID)
	if err != nil {
		return err
	}
	next := row.available + delta
	if next < 0 || next > row.meta.Total() {
		return infra.WrapRepoErr(r.s.logger, infra.KindConflict, "available seats out of range", nil)
	}
	row.available = next
	return nil
}

type bookingRepo struct{ s *Store }

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Bookings.Create"); err != nil {
		return err
	}
	if _, ok := r.s.st.bookings[b.ID()]; ok {
		return infra.WrapRepoErr(r.s.logger, infra.KindDuplicateKey, "booking exists", nil)
	}
	r.s.st.bookings[b.ID()] = cloneBooking(b)
	return nil
}

func (r *bookingRepo) LockByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.st.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr(r.s.logger, infra.KindNotFound, "booking not found", nil)
	}
	return cloneBooking(b), nil
}

func (r *bookingRepo) Update(_ context.Context, b *booking.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Bookings.Update"); err != nil {
		return err
	}
	if _, ok := r.s.st.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr(r.s.logger, infra.KindNotFound, "booking not found", nil)
	}
	r.s.st.bookings[b.ID()] = cloneBooking(b)
	return nil
}

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(_ context.Context, p *shared.PaymentRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.payments[p.OrderID]; ok {
		return infra.WrapRepoErr(r.s.logger, infra.KindDuplicateKey, "payment order exists", nil)
	}
	cp := *p
	r.s.st.payments[p.OrderID] = &cp
	return nil
}

func (r *paymentRepo) FindByOrderID(_ context.Context, orderID string) (*shared.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.payments[orderID]
	if !ok {
		return nil, infra.WrapRepoErr(r.s.logger, infra.KindNotFound, "payment not found", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *paymentRepo) MarkCompleted(_ context.Context, orderID, paymentID, signature string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.payments[orderID]
	if !ok || p.Status != shared.PaymentCreated {
		return infra.WrapRepoErr(r.s.logger, infra.KindConflict, "payment not awaiting completion", nil)
	}
	p.Status = shared.PaymentCompleted
	p.PaymentID = &paymentID
	p.Signature = &signature
	p.UpdatedAt = at
	return nil
}

// LockCompletedByBookingID returns the most recently completed payment.
func (r *paymentRepo) LockCompletedByBookingID(_ context.Context, bookingID uuid.UUID) (*shared.PaymentRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *shared.PaymentRecord
	for _, p := range r.s.st.payments {
		if p.BookingID != bookingID || p.Status != shared.PaymentCompleted {
			continue
		}
		if found == nil || p.UpdatedAt.After(found.UpdatedAt) {
			found = p
		}
	}
	if found == nil {
		return nil, infra.WrapRepoErr(r.s.logger, infra.KindNotFound, "completed payment not found", nil)
	}
	cp := *found
	return &cp, nil
}

func (r *paymentRepo) MarkRefunded(_ context.Context, id uuid.UUID, refundID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Payments.MarkRefunded"); err != nil {
		return err
	}
	for _, p := range r.s.st.payments {
		if p.ID != id {
			continue
		}
		if p.Status != shared.PaymentCompleted {
			break
		}
		p.Status = shared.PaymentRefunded
		p.RefundID = &refundID
		p.RefundedAt = &at
		p.UpdatedAt = at
		return nil
	}
	return infra.WrapRepoErr(r.s.logger, infra.KindConflict, "payment not refundable", nil)
}

type idempotencyRepo struct{ s *Store }

func (r *idempotencyRepo) TryInsert(_ context.Context, key, userID uuid.UUID, _ string, requestHash string, expiresAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := idemKey{key, userID}
	if _, ok := r.s.st.idempotency[k]; ok {
		return false, nil
	}
	now := r.s.clock.Now()
	r.s.st.idempotency[k] = &shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Status:      shared.IdempotencyProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return true, nil
}

func (r *idempotencyRepo) Get(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.st.idempotency[idemKey{key, userID}]
	if !ok {
		return nil, infra.WrapRepoErr(r.s.logger, infra.KindNotFound, "idempotency key not found", nil)
	}
	cp := *rec
	return &cp, nil
}

func (r *idempotencyRepo) MarkCompleted(_ context.Context, key, userID uuid.UUID, bookingID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.st.idempotency[idemKey{key, userID}]
	if !ok {
		return infra.WrapRepoErr(r.s.logger, infra.KindNotFound, "idempotency key not found", nil)
	}
	rec.Status = shared.IdempotencyCompleted
	rec.ResultBookingID = &bookingID
	rec.UpdatedAt = r.s.clock.Now()
	return nil
}

func (r *idempotencyRepo) Delete(_ context.Context, key, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Idempotency.Delete"); err != nil {
		return err
	}
	delete(r.s.st.idempotency, idemKey{key, userID})
	return nil
}

type notificationRepo struct{ s *Store }

func (r *notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.notifications = append(r.s.st.notifications, NotificationJob{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}
