package booking

import (
	"slices"
	"time"

	"cinebook/internal/domain/showtime"
	"cinebook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoSeats          = errs.New("booking needs at least one seat")
	ErrTooManySeats     = errs.New("too many seats in one booking")
	ErrDuplicateSeat    = errs.New("seat requested twice")
	ErrInvalidState     = errs.New("invalid booking state")
	ErrHoldExpired      = errs.Wrap(ErrInvalidState, "booking hold expired")
	ErrNotYetExpired    = errs.New("booking hold has not expired")
	ErrTooLateToCancel  = errs.New("too late to cancel")
	ErrMissingPaymentID = errs.New("payment reference required")
	ErrRefundNotDue     = errs.Wrap(ErrInvalidState, "no refund due")
)

// CancellationPolicy: cancellation must happen strictly more than Cutoff
// before the show; RefundPercent of the total is returned.
type CancellationPolicy struct {
	Cutoff        time.Duration
	RefundPercent int64
}

func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{Cutoff: 2 * time.Hour, RefundPercent: 90}
}

// Refund is exact: 90% of 555 is 499.5, never rounded to a whole rupee.
func (p CancellationPolicy) Refund(total int64) decimal.Decimal {
	return decimal.NewFromInt(total).Mul(decimal.NewFromInt(p.RefundPercent)).Shift(-2)
}

type Booking struct {
	id           uuid.UUID
	code         Code
	userID       uuid.UUID
	movieID      uuid.UUID
	theatreID    uuid.UUID
	showtimeID   uuid.UUID
	showsAt      time.Time
	seats        []Seat
	totalAmount  int64
	status       Status
	expiresAt    time.Time
	payment      *PaymentRef
	ticket       *string
	cancellation *Cancellation
	createdAt    time.Time
	updatedAt    time.Time
}

type NewBookingParams struct {
	UserID     uuid.UUID
	MovieID    uuid.UUID
	TheatreID  uuid.UUID
	ShowtimeID uuid.UUID
	ShowsAt    time.Time
	Seats      []Seat
	MaxSeats   int
	Hold       time.Duration
}

func NewBooking(p NewBookingParams, now time.Time) (*Booking, error) {
	if len(p.Seats) == 0 {
		return nil, ErrNoSeats
	}
	if p.MaxSeats > 0 && len(p.Seats) > p.MaxSeats {
		return nil, ErrTooManySeats
	}

	seen := make(map[showtime.SeatID]struct{}, len(p.Seats))
	var total int64
	for _, s := range p.Seats {
		if _, dup := seen[s.SeatID]; dup {
			return nil, errs.Wrapf(ErrDuplicateSeat, "seat %s", s.SeatID)
		}
		seen[s.SeatID] = struct{}{}
		total += s.Price
	}

	return &Booking{
		id:          uuid.New(),
		code:        NewCode(now),
		userID:      p.UserID,
		movieID:     p.MovieID,
		theatreID:   p.TheatreID,
		showtimeID:  p.ShowtimeID,
		showsAt:     p.ShowsAt,
		seats:       slices.Clone(p.Seats),
		totalAmount: total,
		status:      StatusPending,
		expiresAt:   now.Add(p.Hold),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructBooking(
	id uuid.UUID,
	code Code,
	userID, movieID, theatreID, showtimeID uuid.UUID,
	showsAt time.Time,
	seats []Seat,
	totalAmount int64,
	status Status,
	expiresAt time.Time,
	payment *PaymentRef,
	ticket *string,
	cancellation *Cancellation,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		code:         code,
		userID:       userID,
		movieID:      movieID,
		theatreID:    theatreID,
		showtimeID:   showtimeID,
		showsAt:      showsAt,
		seats:        seats,
		totalAmount:  totalAmount,
		status:       status,
		expiresAt:    expiresAt,
		payment:      payment,
		ticket:       ticket,
		cancellation: cancellation,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Confirm re-checks the hold deadline; a pending booking past expiresAt
// cannot be confirmed even if the sweeper has not expired it yet.
func (b *Booking) Confirm(now time.Time, payment PaymentRef) error {
	if err := b.transition(StatusConfirmed); err != nil {
		return err
	}
	if payment.PaymentID == "" {
		return ErrMissingPaymentID
	}
	if b.IsHoldExpired(now) {
		return ErrHoldExpired
	}
	b.status = StatusConfirmed
	b.payment = &payment
	b.updatedAt = now
	return nil
}

func (b *Booking) Cancel(now time.Time, policy CancellationPolicy) (decimal.Decimal, error) {
	if err := b.transition(StatusCancelled); err != nil {
		return decimal.Zero, err
	}
	if b.showsAt.Sub(now) <= policy.Cutoff {
		return decimal.Zero, ErrTooLateToCancel
	}
	refund := policy.Refund(b.totalAmount)
	b.status = StatusCancelled
	b.cancellation = &Cancellation{
		CancelledAt:  now,
		RefundAmount: refund,
		RefundStatus: RefundPending,
	}
	b.updatedAt = now
	return refund, nil
}

// RefundDue is the amount still owed on a cancelled booking. A failed
// refund may be retried; a processed one may not.
func (b *Booking) RefundDue() (decimal.Decimal, error) {
	if b.status != StatusCancelled || b.cancellation == nil {
		return decimal.Zero, errs.Wrapf(ErrRefundNotDue, "booking is %s", b.status)
	}
	switch b.cancellation.RefundStatus {
	case RefundPending, RefundFailed:
		return b.cancellation.RefundAmount, nil
	default:
		return decimal.Zero, errs.Wrapf(ErrRefundNotDue, "refund already %s", b.cancellation.RefundStatus)
	}
}

// SettleRefund records the outcome of one refund attempt.
func (b *Booking) SettleRefund(now time.Time, succeeded bool) error {
	if _, err := b.RefundDue(); err != nil {
		return err
	}
	c := *b.cancellation
	c.RefundStatus = RefundFailed
	if succeeded {
		c.RefundStatus = RefundProcessed
	}
	b.cancellation = &c
	b.updatedAt = now
	return nil
}

func (b *Booking) Expire(now time.Time) error {
	if err := b.transition(StatusExpired); err != nil {
		return err
	}
	if !b.IsHoldExpired(now) {
		return ErrNotYetExpired
	}
	b.status = StatusExpired
	b.updatedAt = now
	return nil
}

func (b *Booking) AttachTicket(ref string) {
	b.ticket = &ref
}

func (b *Booking) IsHoldExpired(now time.Time) bool {
	return now.After(b.expiresAt)
}

func (b *Booking) IsExpirable(now time.Time) bool {
	return b.status == StatusPending && b.IsHoldExpired(now)
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) SeatIDs() []showtime.SeatID {
	ids := make([]showtime.SeatID, len(b.seats))
	for i, s := range b.seats {
		ids[i] = s.SeatID
	}
	return ids
}

func (b *Booking) transition(next Status) error {
	if !b.status.CanTransitionTo(next) {
		return errs.Wrapf(ErrInvalidState, "cannot move booking from %s to %s", b.status, next)
	}
	return nil
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) Code() Code                  { return b.code }
func (b *Booking) UserID() uuid.UUID           { return b.userID }
func (b *Booking) MovieID() uuid.UUID          { return b.movieID }
func (b *Booking) TheatreID() uuid.UUID        { return b.theatreID }
func (b *Booking) ShowtimeID() uuid.UUID       { return b.showtimeID }
func (b *Booking) ShowsAt() time.Time          { return b.showsAt }
func (b *Booking) Seats() []Seat               { return slices.Clone(b.seats) }
func (b *Booking) TotalAmount() int64          { return b.totalAmount }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) ExpiresAt() time.Time        { return b.expiresAt }
func (b *Booking) Payment() *PaymentRef        { return b.payment }
func (b *Booking) Ticket() *string             { return b.ticket }
func (b *Booking) Cancellation() *Cancellation { return b.cancellation }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
