//go:build unit || e2e

// Package memstore is an in-memory shared.UnitOfWork for use case tests.
// Units of work are serialized by one mutex, which stands in for the
// showtime and booking row locks, and a failed unit of work restores the
// state it started from.
package memstore

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra"
	"cinebook/internal/pkg/clock"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
)

type showtimeRow struct {
	meta      *showtime.Showtime
	available int
	holds     map[showtime.SeatID]showtime.SeatHold
}

type idemKey struct {
	key    uuid.UUID
	userID uuid.UUID
}

type NotificationJob struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type state struct {
	showtimes     map[uuid.UUID]*showtimeRow
	bookings      map[uuid.UUID]*booking.Booking
	payments      map[string]*shared.PaymentRecord
	idempotency   map[idemKey]*shared.IdempotencyRecord
	notifications []NotificationJob
}

type Store struct {
	txMu   sync.Mutex
	mu     sync.Mutex
	st     state
	faults map[string]error
	clock  clock.Clock
	logger *slog.Logger
}

func New() *Store {
	return &Store{
		st: state{
			showtimes:   map[uuid.UUID]*showtimeRow{},
			bookings:    map[uuid.UUID]*booking.Booking{},
			payments:    map[string]*shared.PaymentRecord{},
			idempotency: map[idemKey]*shared.IdempotencyRecord{},
		},
		faults: map[string]error{},
		clock:  clock.NewRealClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

var _ shared.UnitOfWork = (*Store)(nil)

// InjectFault makes the next call of op fail with err. Ops are named
// "<Repository>.<Method>", e.g. "Showtimes.AdjustAvailable".
func (s *Store) InjectFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// UseClock stamps idempotency keys with c, as the database would with now().
func (s *Store) UseClock(c clock.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

func (s *Store) fault(op string) error {
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		return err
	}
	return nil
}

func (s *Store) AddShowtime(st *showtime.Showtime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := &showtimeRow{meta: st, available: st.Available(), holds: map[showtime.SeatID]showtime.SeatHold{}}
	for _, h := range st.Holds() {
		row.holds[h.SeatID] = h
	}
	s.st.showtimes[st.ID()] = row
}

func (s *Store) AddPayment(p shared.PaymentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.payments[p.OrderID] = &p
}

// Showtime returns the committed showtime state.
func (s *Store) Showtime(id uuid.UUID) *showtime.Showtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.st.showtimes[id]
	if !ok {
		return nil
	}
	return row.build()
}

func (s *Store) Booking(id uuid.UUID) *booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	if !ok {
		return nil
	}
	return cloneBooking(b)
}

func (s *Store) Payment(orderID string) *shared.PaymentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.payments[orderID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (s *Store) IdempotencyRecord(key, userID uuid.UUID) *shared.IdempotencyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.st.idempotency[idemKey{key, userID}]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

func (s *Store) Notifications() []NotificationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.notifications)
}

func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.bookings)
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx, &tx{s: s}); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{s: s}
}

func (st state) clone() state {
	out := state{
		showtimes:     make(map[uuid.UUID]*showtimeRow, len(st.showtimes)),
		bookings:      make(map[uuid.UUID]*booking.Booking, len(st.bookings)),
		payments:      make(map[string]*shared.PaymentRecord, len(st.payments)),
		idempotency:   make(map[idemKey]*shared.IdempotencyRecord, len(st.idempotency)),
		notifications: slices.Clone(st.notifications),
	}
	for id, row := range st.showtimes {
		out.showtimes[id] = &showtimeRow{meta: row.meta, available: row.available, holds: maps.Clone(row.holds)}
	}
	for id, b := range st.bookings {
		out.bookings[id] = cloneBooking(b)
	}
	for id, p := range st.payments {
		cp := *p
		out.payments[id] = &cp
	}
	for k, r := range st.idempotency {
		cp := *r
		out.idempotency[k] = &cp
	}
	return out
}

func (row *showtimeRow) build() *showtime.Showtime {
	holds := slices.Collect(maps.Values(row.holds))
	sort.Slice(holds, func(i, j int) bool { return holds[i].SeatID < holds[j].SeatID })
	m := row.meta
	return showtime.ReconstructShowtime(
		m.ID(), m.MovieID(), m.TheatreID(),
		m.Screen(), m.ShowDate(), m.StartTime(),
		m.Pricing(),
		m.Total(), row.available,
		holds,
		m.IsActive(),
	)
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	var payment *booking.PaymentRef
	if p := b.Payment(); p != nil {
		cp := *p
		payment = &cp
	}
	var ticket *string
	if t := b.Ticket(); t != nil {
		cp := *t
		ticket = &cp
	}
	var cancellation *booking.Cancellation
	if c := b.Cancellation(); c != nil {
		cp := *c
		cancellation = &cp
	}
	return booking.ReconstructBooking(
		b.ID(), b.Code(),
		b.UserID(), b.MovieID(), b.TheatreID(), b.ShowtimeID(),
		b.ShowsAt(),
		b.Seats(),
		b.TotalAmount(),
		b.Status(),
		b.ExpiresAt(),
		payment,
		ticket,
		cancellation,
		b.CreatedAt(), b.UpdatedAt(),
	)
}

type reads struct{ s *Store }

func (r *reads) BookingByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	if b := r.s.Booking(id); b != nil {
		return b, nil
	}
	return nil, infra.WrapRepoErr(r.s.logger, infra.KindNotFound, "booking not found", nil)
}

func (r *reads) ExpiredPendingBookingIDs(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Reads.ExpiredPendingBookingIDs"); err != nil {
		return nil, err
	}
	var expired []*booking.Booking
	for _, b := range r.s.st.bookings {
		if b.Status() == booking.StatusPending && b.ExpiresAt().Before(now) {
			expired = append(expired, b)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ExpiresAt().Before(expired[j].ExpiresAt()) })
	if len(expired) > limit {
		expired = expired[:limit]
	}
	ids := make([]uuid.UUID, len(expired))
	for i, b := range expired {
		ids[i] = b.ID()
	}
	return ids, nil
}

func (r *reads) PendingBookingDeadlines(_ context.Context, limit int) ([]shared.BookingDeadline, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []shared.BookingDeadline
	for _, b := range r.s.st.bookings {
		if b.Status() == booking.StatusPending {
			out = append(out, shared.BookingDeadline{BookingID: b.ID(), ExpiresAt: b.ExpiresAt()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
