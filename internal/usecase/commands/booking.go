package commands

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra"
	"cinebook/internal/pkg/clock"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/queries"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createBookingEndpoint = "POST /api/bookings"

type SeatSelection struct {
	SeatID   string `json:"seat_id"`
	Category string `json:"category"`
}

type CreateBookingInput struct {
	ShowtimeID uuid.UUID       `json:"showtime_id"`
	Seats      []SeatSelection `json:"seats"`
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type PaymentReference struct {
	OrderID   string
	PaymentID string
	Signature string
}

type PaymentOrderResult struct {
	BookingID uuid.UUID
	OrderID   string
	Amount    int64
	Currency  string
	KeyID     string
}

type CancelBookingResult struct {
	Booking      *queries.BookingView
	RefundAmount decimal.Decimal
}

type BookingCommands interface {
	Create(ctx context.Context, in CreateBookingInput, userID uuid.UUID, idempotencyKey *uuid.UUID) (*CreateBookingResult, error)
	CreatePaymentOrder(ctx context.Context, bookingID, userID uuid.UUID) (*PaymentOrderResult, error)
	Confirm(ctx context.Context, bookingID uuid.UUID, ref PaymentReference, userID uuid.UUID) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID, userID uuid.UUID) (*CancelBookingResult, error)
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	payments PaymentGateway
	tickets  TicketGenerator
	timers   ExpiryScheduler
	policy   BookingPolicy
	clock    clock.Clock
	logger   *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	payments PaymentGateway,
	tickets TicketGenerator,
	timers ExpiryScheduler,
	policy BookingPolicy,
	clock clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		payments: payments,
		tickets:  tickets,
		timers:   timers,
		policy:   policy,
		clock:    clock,
		logger:   logger,
	}
}

type parsedSeat struct {
	id       showtime.SeatID
	category showtime.Category
}

func (c *bookingCommandsImpl) Create(
	ctx context.Context,
	in CreateBookingInput,
	userID uuid.UUID,
	idempotencyKey *uuid.UUID,
) (*CreateBookingResult, error) {
	seats, err := c.parseSeats(in.Seats)
	if err != nil {
		return nil, err
	}

	if idempotencyKey == nil {
		view, err := c.createBooking(ctx, in.ShowtimeID, seats, userID, nil)
		if err != nil {
			return nil, err
		}
		return &CreateBookingResult{Booking: view}, nil
	}

	replayed, err := c.handleIdempotency(ctx, *idempotencyKey, userID, calculateRequestHash(in))
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
	}

	view, err := c.createBooking(ctx, in.ShowtimeID, seats, userID, idempotencyKey)
	if err != nil {
		c.releaseIdempotencyKey(ctx, *idempotencyKey, userID)
		return nil, err
	}
	return &CreateBookingResult{Booking: view}, nil
}

// parseSeats validates the whole request before anything is locked or written.
func (c *bookingCommandsImpl) parseSeats(in []SeatSelection) ([]parsedSeat, error) {
	if len(in) == 0 {
		return nil, booking.ErrNoSeats
	}
	if c.policy.MaxSeats > 0 && len(in) > c.policy.MaxSeats {
		return nil, errs.Wrapf(booking.ErrTooManySeats, "at most %d seats", c.policy.MaxSeats)
	}

	seen := make(map[showtime.SeatID]struct{}, len(in))
	out := make([]parsedSeat, len(in))
	for i, s := range in {
		id, err := showtime.NewSeatID(s.SeatID)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, errs.Wrapf(booking.ErrDuplicateSeat, "seat %s", id)
		}
		seen[id] = struct{}{}

		category, err := showtime.ParseCategory(s.Category)
		if err != nil {
			return nil, err
		}
		out[i] = parsedSeat{id: id, category: category}
	}
	return out, nil
}

func (c *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	key, userID uuid.UUID,
	requestHash string,
) (*queries.BookingView, error) {
	var existing *shared.IdempotencyRecord
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing = nil
		expiresAt := c.clock.Now().Add(c.policy.IdempotencyTTL)

		inserted, err := tx.Idempotency().TryInsert(ctx, key, userID, createBookingEndpoint, requestHash, expiresAt)
		if err != nil || inserted {
			return err
		}

		rec, err := tx.Idempotency().Get(ctx, key, userID)
		if err != nil {
			return err
		}
		if c.reclaimable(rec, requestHash) {
			if err := tx.Idempotency().Delete(ctx, key, userID); err != nil {
				return err
			}
			_, err := tx.Idempotency().TryInsert(ctx, key, userID, createBookingEndpoint, requestHash, expiresAt)
			return err
		}
		existing = rec
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if existing == nil {
		return nil, nil
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case shared.IdempotencyCompleted:
		if existing.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking ID")
		}
		b, err := c.uow.CommandReads().BookingByID(ctx, *existing.ResultBookingID)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
		}
		return queries.NewBookingView(b), nil

	case shared.IdempotencyProcessing:
		return nil, errs.ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

// reclaimable reports whether a stored key may be taken over by this request:
// either it has expired, or a claim for the same body has stayed processing
// past the lease, which means the request that made it died mid-flight.
func (c *bookingCommandsImpl) reclaimable(rec *shared.IdempotencyRecord, requestHash string) bool {
	now := c.clock.Now()
	if !rec.ExpiresAt.After(now) {
		return true
	}
	return rec.Status == shared.IdempotencyProcessing &&
		rec.RequestHash == requestHash &&
		c.policy.IdempotencyLease > 0 &&
		now.Sub(rec.UpdatedAt) > c.policy.IdempotencyLease
}

// releaseIdempotencyKey frees the key after a failed create so the client may retry.
func (c *bookingCommandsImpl) releaseIdempotencyKey(ctx context.Context, key, userID uuid.UUID) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Delete(ctx, key, userID)
	})
	if err != nil {
		c.logger.Warn("failed to release idempotency key",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))
	}
}

func (c *bookingCommandsImpl) createBooking(
	ctx context.Context,
	showtimeID uuid.UUID,
	seats []parsedSeat,
	userID uuid.UUID,
	idempotencyKey *uuid.UUID,
) (*queries.BookingView, error) {
	var created *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = nil

		st, err := lockShowtime(ctx, tx, showtimeID)
		if err != nil {
			return err
		}
		if !st.IsActive() {
			return ErrShowtimeInactive
		}

		for _, s := range seats {
			if !st.IsSeatAvailable(s.id) {
				return showtime.NewSeatUnavailableError(s.id)
			}
		}

		priced := make([]booking.Seat, len(seats))
		for i, s := range seats {
			price, err := st.CalculatePrice(s.category)
			if err != nil {
				return err
			}
			priced[i] = booking.Seat{SeatID: s.id, Category: s.category, Price: price}
		}

		b, err := booking.NewBooking(booking.NewBookingParams{
			UserID:     userID,
			MovieID:    st.MovieID(),
			TheatreID:  st.TheatreID(),
			ShowtimeID: st.ID(),
			ShowsAt:    st.StartsAt(c.policy.ShowLocation),
			Seats:      priced,
			MaxSeats:   c.policy.MaxSeats,
			Hold:       c.policy.Hold,
		}, c.clock.Now())
		if err != nil {
			return err
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		for _, s := range priced {
			if err := st.PlaceHold(s.SeatID, b.ID()); err != nil {
				return err
			}
			hold := showtime.SeatHold{SeatID: s.SeatID, BookingID: b.ID(), Status: showtime.StatusBlocked}
			if err := tx.Showtimes().InsertHold(ctx, st.ID(), hold); err != nil {
				if infra.IsKind(err, infra.KindConflict) || infra.IsKind(err, infra.KindDuplicateKey) {
					return showtime.NewSeatUnavailableError(s.SeatID)
				}
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		if err := adjustAvailable(ctx, tx, st.ID(), -len(priced)); err != nil {
			return err
		}

		if idempotencyKey != nil {
			if err := tx.Idempotency().MarkCompleted(ctx, *idempotencyKey, userID, b.ID()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.timers.Schedule(created.ID(), created.ExpiresAt())
	return queries.NewBookingView(created), nil
}

func (c *bookingCommandsImpl) CreatePaymentOrder(ctx context.Context, bookingID, userID uuid.UUID) (*PaymentOrderResult, error) {
	b, err := c.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		return nil, translateBookingErr(err)
	}
	if !b.IsOwnedBy(userID) {
		return nil, ErrUnauthorized
	}
	if b.Status() != booking.StatusPending {
		return nil, errs.Wrapf(booking.ErrInvalidState, "booking is %s", b.Status())
	}
	if b.IsHoldExpired(c.clock.Now()) {
		return nil, booking.ErrHoldExpired
	}

	// Provider call stays outside the transaction.
	order, err := c.payments.CreateOrder(ctx, b.TotalAmount()*100, c.policy.Currency, b.Code().String())
	if err != nil {
		return nil, errs.Mark(err, ErrPaymentGateway)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()
		return tx.Payments().Create(ctx, &shared.PaymentRecord{
			ID:        uuid.New(),
			BookingID: b.ID(),
			UserID:    userID,
			OrderID:   order.OrderID,
			Amount:    order.Amount,
			Currency:  order.Currency,
			Status:    shared.PaymentCreated,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &PaymentOrderResult{
		BookingID: b.ID(),
		OrderID:   order.OrderID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		KeyID:     c.policy.PaymentKeyID,
	}, nil
}

func (c *bookingCommandsImpl) Confirm(
	ctx context.Context,
	bookingID uuid.UUID,
	ref PaymentReference,
	userID uuid.UUID,
) (*queries.BookingView, error) {
	var confirmed *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		confirmed = nil
		now := c.clock.Now()

		b, err := lockOwnedBooking(ctx, tx, bookingID, userID)
		if err != nil {
			return err
		}

		// In-memory only until the checks below pass; a failure rolls back.
		if err := b.Confirm(now, booking.PaymentRef{OrderID: ref.OrderID, PaymentID: ref.PaymentID}); err != nil {
			return err
		}
		if !c.payments.VerifySignature(ref.OrderID, ref.PaymentID, ref.Signature) {
			return ErrInvalidPaymentSignature
		}

		rec, err := tx.Payments().FindByOrderID(ctx, ref.OrderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentOrderMismatch
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if rec.BookingID != b.ID() {
			return ErrPaymentOrderMismatch
		}
		if rec.Status == shared.PaymentCompleted {
			return ErrPaymentOrderExists
		}

		st, err := lockShowtime(ctx, tx, b.ShowtimeID())
		if err != nil {
			return err
		}
		for _, seat := range b.SeatIDs() {
			if err := st.ConfirmHold(seat, b.ID()); err != nil {
				return err
			}
			ok, err := tx.Showtimes().MarkHoldBooked(ctx, st.ID(), seat, b.ID())
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if !ok {
				return errs.Wrapf(showtime.ErrHoldNotFound, "seat %s", seat)
			}
		}

		if err := tx.Payments().MarkCompleted(ctx, ref.OrderID, ref.PaymentID, ref.Signature, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		c.attachTicket(b)

		if err := tx.Bookings().Update(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := createNotificationJob(ctx, tx, b, "booking.confirmed", now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		confirmed = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return queries.NewBookingView(confirmed), nil
}

type ticketPayload struct {
	BookingCode string    `json:"booking_code"`
	ShowtimeID  uuid.UUID `json:"showtime_id"`
	Seats       []string  `json:"seats"`
	ShowsAt     time.Time `json:"shows_at"`
}

// attachTicket leaves the ticket empty when generation fails; the
// confirmation itself still goes through.
func (c *bookingCommandsImpl) attachTicket(b *booking.Booking) {
	seats := make([]string, 0, len(b.Seats()))
	for _, id := range b.SeatIDs() {
		seats = append(seats, id.String())
	}
	payload, err := json.Marshal(ticketPayload{
		BookingCode: b.Code().String(),
		ShowtimeID:  b.ShowtimeID(),
		Seats:       seats,
		ShowsAt:     b.ShowsAt(),
	})
	if err == nil {
		var ref string
		if ref, err = c.tickets.Generate(string(payload)); err == nil {
			b.AttachTicket(ref)
			return
		}
	}
	c.logger.Warn("ticket generation failed",
		slog.String("booking_id", b.ID().String()),
		slog.String("error", err.Error()))
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, bookingID, userID uuid.UUID) (*CancelBookingResult, error) {
	var (
		cancelled *booking.Booking
		refund    decimal.Decimal
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cancelled = nil
		now := c.clock.Now()

		b, err := lockOwnedBooking(ctx, tx, bookingID, userID)
		if err != nil {
			return err
		}

		amount, err := b.Cancel(now, c.policy.Cancellation)
		if err != nil {
			return err
		}

		if err := releaseSeats(ctx, tx, b); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := createNotificationJob(ctx, tx, b, "booking.cancelled", now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		cancelled, refund = b, amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CancelBookingResult{Booking: queries.NewBookingView(cancelled), RefundAmount: refund}, nil
}

func calculateRequestHash(in CreateBookingInput) string {
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
