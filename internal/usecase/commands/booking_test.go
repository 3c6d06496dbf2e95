//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra/payment"
	"cinebook/internal/pkg/clock"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/commands"
	"cinebook/internal/usecase/queries"
	"cinebook/internal/usecase/shared"
	"cinebook/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var (
	showDate = time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	showsAt  = time.Date(2025, 6, 14, 19, 0, 0, 0, time.UTC)
	openedAt = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
)

type BookingCommandsTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memstore.Store
	clock    *clock.MockClock
	gateway  *fakeGateway
	tickets  *fakeTickets
	timers   *recordingScheduler
	cmds     commands.BookingCommands
	expiry   commands.ExpiryCommands
	refunds  commands.RefundCommands
	showtime *showtime.Showtime
	userID   uuid.UUID
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.clock = clock.NewMockClock(openedAt)
	s.gateway = &fakeGateway{}
	s.tickets = &fakeTickets{}
	s.timers = newRecordingScheduler()
	s.userID = uuid.New()
	s.store.UseClock(s.clock)

	st, err := showtime.NewShowtime(showtime.NewShowtimeParams{
		MovieID:   uuid.New(),
		TheatreID: uuid.New(),
		Screen:    1,
		ShowDate:  showDate,
		StartTime: "19:00",
		Pricing: []showtime.PriceRule{
			{Category: showtime.CategoryGold, BasePrice: 200},
			{Category: showtime.CategoryPremium, BasePrice: 150},
		},
		Total: 10,
	})
	s.Require().NoError(err)
	s.showtime = st
	s.store.AddShowtime(st)

	policy := commands.BookingPolicy{
		Hold:             15 * time.Minute,
		MaxSeats:         10,
		Cancellation:     booking.DefaultCancellationPolicy(),
		ShowLocation:     time.UTC,
		IdempotencyTTL:   24 * time.Hour,
		IdempotencyLease: time.Minute,
		Currency:         "INR",
		PaymentKeyID:     "rzp_test",
	}
	logger := discardLogger()
	s.cmds = commands.NewBookingCommands(s.store, s.gateway, s.tickets, s.timers, policy, s.clock, logger)
	s.expiry = commands.NewExpiryCommands(s.store, commands.SweepPolicy{Concurrency: 4, BatchSize: 100}, s.clock, logger)
	s.refunds = commands.NewRefundCommands(s.store, s.gateway, s.clock, logger)
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func gold(seats ...string) []commands.SeatSelection {
	out := make([]commands.SeatSelection, len(seats))
	for i, id := range seats {
		out[i] = commands.SeatSelection{SeatID: id, Category: "Gold"}
	}
	return out
}

func (s *BookingCommandsTestSuite) create(userID uuid.UUID, seats ...string) *queries.BookingView {
	s.T().Helper()
	res, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold(seats...)}, userID, nil)
	s.Require().NoError(err)
	return res.Booking
}

func (s *BookingCommandsTestSuite) pay(b *queries.BookingView) commands.PaymentReference {
	s.T().Helper()
	order, err := s.cmds.CreatePaymentOrder(s.ctx, b.ID, b.UserID)
	s.Require().NoError(err)
	return commands.PaymentReference{
		OrderID:   order.OrderID,
		PaymentID: "pay_" + order.OrderID,
		Signature: payment.Sign(testPaymentSecret, order.OrderID, "pay_"+order.OrderID),
	}
}

func (s *BookingCommandsTestSuite) committed() *showtime.Showtime {
	st := s.store.Showtime(s.showtime.ID())
	s.Require().NotNil(st)
	s.Equal(st.Total(), st.Available()+st.HoldCount(), "available + holds must equal total")
	return st
}

// ================================================================================
// Full lifecycle
// ================================================================================

func (s *BookingCommandsTestSuite) TestLifecycle() {
	created := s.create(s.userID, "A1", "A2")
	s.Equal(int64(400), created.TotalAmount)
	s.Equal(booking.StatusPending.String(), created.Status)
	s.Equal(8, s.committed().Available())

	armedAt, ok := s.timers.At(created.ID)
	s.True(ok)
	s.Equal(created.ExpiresAt, armedAt)

	ref := s.pay(created)
	s.Equal(int64(40000), s.store.Payment(ref.OrderID).Amount)

	s.clock.Add(5 * time.Minute)
	confirmed, err := s.cmds.Confirm(s.ctx, created.ID, ref, s.userID)
	s.Require().NoError(err)
	s.Equal(booking.StatusConfirmed.String(), confirmed.Status)
	s.NotNil(confirmed.Ticket)
	s.Require().NotNil(confirmed.Payment)
	s.Equal(ref.PaymentID, confirmed.Payment.PaymentID)

	st := s.committed()
	s.Equal(8, st.Available())
	for _, h := range st.Holds() {
		s.Equal(showtime.StatusBooked, h.Status)
	}

	s.clock.Set(showsAt.Add(-3 * time.Hour))
	cancelled, err := s.cmds.Cancel(s.ctx, created.ID, s.userID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(360).Equal(cancelled.RefundAmount), "refund %s", cancelled.RefundAmount)
	s.Equal(booking.StatusCancelled.String(), cancelled.Booking.Status)
	s.Require().NotNil(cancelled.Booking.Cancellation)
	s.Equal(string(booking.RefundPending), cancelled.Booking.Cancellation.RefundStatus)

	st = s.committed()
	s.Equal(10, st.Available())
	s.Empty(st.BookedSeatIDs())

	var topics []string
	for _, job := range s.store.Notifications() {
		topics = append(topics, job.Topic)
	}
	s.Equal([]string{"booking.confirmed", "booking.cancelled"}, topics)
}

// ================================================================================
// Create
// ================================================================================

func (s *BookingCommandsTestSuite) TestCreate() {
	s.Run("error: seat already held names the seat", func() {
		s.SetupTest()
		s.create(uuid.New(), "A1")

		_, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("A3", "A1")}, s.userID, nil)
		s.ErrorIs(err, showtime.ErrSeatUnavailable)
		var seatErr *showtime.SeatUnavailableError
		s.Require().True(errs.As(err, &seatErr))
		s.Equal(showtime.SeatID("A1"), seatErr.SeatID)

		st := s.committed()
		s.Equal(9, st.Available())
		s.Equal(1, s.store.BookingCount())
	})

	s.Run("error: failure after holds are written leaves no trace", func() {
		s.SetupTest()
		s.store.InjectFault("Showtimes.AdjustAvailable", errors.New("connection reset"))

		_, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("A1", "A2")}, s.userID, nil)
		s.ErrorIs(err, errs.ErrDatabaseOperationFailed)

		st := s.committed()
		s.Equal(10, st.Available())
		s.Empty(st.Holds())
		s.Zero(s.store.BookingCount())
	})

	s.Run("error: showtime not found", func() {
		s.SetupTest()
		_, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: uuid.New(), Seats: gold("A1")}, s.userID, nil)
		s.ErrorIs(err, commands.ErrShowtimeNotFound)
	})

	s.Run("error: inactive showtime", func() {
		s.SetupTest()
		inactive := showtime.ReconstructShowtime(uuid.New(), uuid.New(), uuid.New(), 2, showDate, "21:00",
			[]showtime.PriceRule{{Category: showtime.CategoryGold, BasePrice: 200}}, 10, 10, nil, false)
		s.store.AddShowtime(inactive)

		_, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: inactive.ID(), Seats: gold("A1")}, s.userID, nil)
		s.ErrorIs(err, commands.ErrShowtimeInactive)
	})

	validation := []struct {
		name    string
		seats   []commands.SeatSelection
		wantErr error
	}{
		{name: "no seats", seats: nil, wantErr: booking.ErrNoSeats},
		{name: "too many seats", seats: gold("A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "B1", "B2"), wantErr: booking.ErrTooManySeats},
		{name: "duplicate seat", seats: gold("A1", "A1"), wantErr: booking.ErrDuplicateSeat},
		{name: "malformed seat id", seats: gold("1A"), wantErr: showtime.ErrInvalidSeatID},
		{name: "unknown category", seats: []commands.SeatSelection{{SeatID: "A1", Category: "Balcony"}}, wantErr: showtime.ErrCategoryNotFound},
		{name: "category not priced for showtime", seats: []commands.SeatSelection{{SeatID: "A1", Category: "Platinum"}}, wantErr: showtime.ErrCategoryNotFound},
	}
	for _, tc := range validation {
		s.Run("validation: "+tc.name, func() {
			s.SetupTest()
			_, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: tc.seats}, s.userID, nil)
			s.ErrorIs(err, tc.wantErr)
			s.Equal(10, s.committed().Available())
		})
	}

	s.Run("success: mixed categories are priced per seat", func() {
		s.SetupTest()
		res, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{
			ShowtimeID: s.showtime.ID(),
			Seats: []commands.SeatSelection{
				{SeatID: "C4", Category: "Gold"},
				{SeatID: "C5", Category: "Premium"},
			},
		}, s.userID, nil)
		s.Require().NoError(err)
		s.Equal(int64(350), res.Booking.TotalAmount)
		s.Equal(showsAt, res.Booking.ShowsAt)
		s.Equal(openedAt.Add(15*time.Minute), res.Booking.ExpiresAt)
	})
}

func (s *BookingCommandsTestSuite) TestCreateConcurrentOverlap() {
	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("B2", "B3")}, uuid.New(), nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, showtime.ErrSeatUnavailable):
				rejected++
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(1, succeeded)
	s.Equal(attempts-1, rejected)
	st := s.committed()
	s.Equal(8, st.Available())
	s.ElementsMatch([]showtime.SeatID{"B2", "B3"}, st.BookedSeatIDs())
}

func (s *BookingCommandsTestSuite) TestCreateIdempotency() {
	in := commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("D1")}

	s.Run("success: same key and body replays the first booking", func() {
		s.SetupTest()
		key := uuid.New()
		first, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.Require().NoError(err)
		s.False(first.IsReplayed)

		second, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.Require().NoError(err)
		s.True(second.IsReplayed)
		s.Equal(first.Booking.ID, second.Booking.ID)
		s.Equal(1, s.store.BookingCount())
		s.Equal(9, s.committed().Available())
	})

	s.Run("error: same key with a different body", func() {
		s.SetupTest()
		key := uuid.New()
		_, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.Require().NoError(err)

		_, err = s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("D2")}, s.userID, &key)
		s.ErrorIs(err, errs.ErrIdempotencyKeyReused)
	})

	s.Run("success: keys are scoped per user", func() {
		s.SetupTest()
		key := uuid.New()
		_, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.Require().NoError(err)

		_, err = s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("D2")}, uuid.New(), &key)
		s.NoError(err)
	})

	s.Run("success: failed create frees the key for a retry", func() {
		s.SetupTest()
		s.create(uuid.New(), "D1")
		key := uuid.New()

		_, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.ErrorIs(err, showtime.ErrSeatUnavailable)
		s.Nil(s.store.IdempotencyRecord(key, s.userID))

		_, err = s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("D2")}, s.userID, &key)
		s.NoError(err)
	})

	s.Run("success: an expired key is reclaimed", func() {
		s.SetupTest()
		key := uuid.New()
		_, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.Require().NoError(err)

		s.clock.Add(25 * time.Hour)
		res, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("D2")}, s.userID, &key)
		s.Require().NoError(err)
		s.False(res.IsReplayed)
	})

	// A claim whose request died mid-flight stays processing; it blocks
	// retries only until the lease runs out.
	abandonClaim := func(key uuid.UUID) {
		s.store.InjectFault("Showtimes.InsertHold", errors.New("connection reset"))
		s.store.InjectFault("Idempotency.Delete", errors.New("connection reset"))
		_, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.Require().Error(err)
		rec := s.store.IdempotencyRecord(key, s.userID)
		s.Require().NotNil(rec)
		s.Equal(shared.IdempotencyProcessing, rec.Status)
	}

	s.Run("error: a fresh processing claim is still in progress", func() {
		s.SetupTest()
		key := uuid.New()
		abandonClaim(key)

		s.clock.Add(30 * time.Second)
		_, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.ErrorIs(err, errs.ErrIdempotencyInProgress)
		s.Zero(s.store.BookingCount())
	})

	s.Run("success: a stale processing claim is reclaimed after the lease", func() {
		s.SetupTest()
		key := uuid.New()
		abandonClaim(key)

		s.clock.Add(time.Minute + time.Second)
		res, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.Require().NoError(err)
		s.False(res.IsReplayed)
		s.Equal(1, s.store.BookingCount())

		rec := s.store.IdempotencyRecord(key, s.userID)
		s.Require().NotNil(rec)
		s.Equal(shared.IdempotencyCompleted, rec.Status)
		s.Equal(res.Booking.ID, *rec.ResultBookingID)

		replay, err := s.cmds.Create(s.ctx, in, s.userID, &key)
		s.Require().NoError(err)
		s.True(replay.IsReplayed)
	})

	s.Run("error: a stale claim for another body is not taken over", func() {
		s.SetupTest()
		key := uuid.New()
		abandonClaim(key)

		s.clock.Add(5 * time.Minute)
		_, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: s.showtime.ID(), Seats: gold("D2")}, s.userID, &key)
		s.ErrorIs(err, errs.ErrIdempotencyKeyReused)
	})
}

// ================================================================================
// Payment order
// ================================================================================

func (s *BookingCommandsTestSuite) TestCreatePaymentOrder() {
	s.Run("error: provider failure", func() {
		s.SetupTest()
		b := s.create(s.userID, "E1")
		s.gateway.createErr = errors.New("503 from provider")

		_, err := s.cmds.CreatePaymentOrder(s.ctx, b.ID, s.userID)
		s.ErrorIs(err, commands.ErrPaymentGateway)
	})

	s.Run("error: not the owner", func() {
		s.SetupTest()
		b := s.create(s.userID, "E1")
		_, err := s.cmds.CreatePaymentOrder(s.ctx, b.ID, uuid.New())
		s.ErrorIs(err, commands.ErrUnauthorized)
	})

	s.Run("error: hold expired", func() {
		s.SetupTest()
		b := s.create(s.userID, "E1")
		s.clock.Add(16 * time.Minute)
		_, err := s.cmds.CreatePaymentOrder(s.ctx, b.ID, s.userID)
		s.ErrorIs(err, booking.ErrHoldExpired)
	})

	s.Run("error: unknown booking", func() {
		s.SetupTest()
		_, err := s.cmds.CreatePaymentOrder(s.ctx, uuid.New(), s.userID)
		s.ErrorIs(err, commands.ErrBookingNotFound)
	})
}

// ================================================================================
// Confirm
// ================================================================================

func (s *BookingCommandsTestSuite) TestConfirm() {
	s.Run("error: second confirm is an invalid state", func() {
		s.SetupTest()
		b := s.create(s.userID, "F1")
		ref := s.pay(b)
		_, err := s.cmds.Confirm(s.ctx, b.ID, ref, s.userID)
		s.Require().NoError(err)

		_, err = s.cmds.Confirm(s.ctx, b.ID, ref, s.userID)
		s.ErrorIs(err, booking.ErrInvalidState)
	})

	s.Run("error: hold expired before confirm", func() {
		s.SetupTest()
		b := s.create(s.userID, "F1")
		ref := s.pay(b)
		s.clock.Add(15*time.Minute + time.Second)

		_, err := s.cmds.Confirm(s.ctx, b.ID, ref, s.userID)
		s.ErrorIs(err, booking.ErrHoldExpired)
		s.ErrorIs(err, booking.ErrInvalidState)
		s.Equal(booking.StatusPending, s.store.Booking(b.ID).Status())
	})

	s.Run("error: invalid signature changes nothing", func() {
		s.SetupTest()
		b := s.create(s.userID, "F1")
		ref := s.pay(b)
		ref.Signature = "forged"

		_, err := s.cmds.Confirm(s.ctx, b.ID, ref, s.userID)
		s.ErrorIs(err, commands.ErrInvalidPaymentSignature)
		s.Equal(booking.StatusPending, s.store.Booking(b.ID).Status())
		s.Equal(showtime.StatusBlocked, s.committed().Holds()[0].Status)
	})

	s.Run("error: not the owner", func() {
		s.SetupTest()
		b := s.create(s.userID, "F1")
		ref := s.pay(b)
		_, err := s.cmds.Confirm(s.ctx, b.ID, ref, uuid.New())
		s.ErrorIs(err, errs.ErrForbidden)
	})

	s.Run("error: order opened for another booking", func() {
		s.SetupTest()
		mine := s.create(s.userID, "F1")
		other := s.create(s.userID, "F2")
		ref := s.pay(other)

		_, err := s.cmds.Confirm(s.ctx, mine.ID, ref, s.userID)
		s.ErrorIs(err, commands.ErrPaymentOrderMismatch)
	})

	s.Run("success: ticket failure does not block confirmation", func() {
		s.SetupTest()
		s.tickets.err = errors.New("encoder unavailable")
		b := s.create(s.userID, "F1")
		ref := s.pay(b)

		confirmed, err := s.cmds.Confirm(s.ctx, b.ID, ref, s.userID)
		s.Require().NoError(err)
		s.Equal(booking.StatusConfirmed.String(), confirmed.Status)
		s.Nil(confirmed.Ticket)
	})
}

// ================================================================================
// Cancel
// ================================================================================

func (s *BookingCommandsTestSuite) TestCancel() {
	confirmOne := func() *queries.BookingView {
		b := s.create(s.userID, "G1", "G2", "G3")
		_, err := s.cmds.Confirm(s.ctx, b.ID, s.pay(b), s.userID)
		s.Require().NoError(err)
		return b
	}

	s.Run("success: two hours and one minute before the show", func() {
		s.SetupTest()
		b := confirmOne()
		s.clock.Set(showsAt.Add(-2*time.Hour - time.Minute))

		res, err := s.cmds.Cancel(s.ctx, b.ID, s.userID)
		s.Require().NoError(err)
		s.True(decimal.NewFromInt(540).Equal(res.RefundAmount), "refund %s", res.RefundAmount)
		s.Equal(10, s.committed().Available())
	})

	s.Run("error: one minute before the show", func() {
		s.SetupTest()
		b := confirmOne()
		s.clock.Set(showsAt.Add(-time.Minute))

		_, err := s.cmds.Cancel(s.ctx, b.ID, s.userID)
		s.ErrorIs(err, booking.ErrTooLateToCancel)
		s.Equal(7, s.committed().Available())
	})

	s.Run("error: pending bookings cannot be cancelled", func() {
		s.SetupTest()
		b := s.create(s.userID, "G1")
		_, err := s.cmds.Cancel(s.ctx, b.ID, s.userID)
		s.ErrorIs(err, booking.ErrInvalidState)
	})

	s.Run("error: not the owner", func() {
		s.SetupTest()
		b := confirmOne()
		_, err := s.cmds.Cancel(s.ctx, b.ID, uuid.New())
		s.ErrorIs(err, commands.ErrUnauthorized)
	})

	s.Run("error: unknown booking", func() {
		s.SetupTest()
		_, err := s.cmds.Cancel(s.ctx, uuid.New(), s.userID)
		s.ErrorIs(err, commands.ErrBookingNotFound)
	})
}

// ================================================================================
// Expiry
// ================================================================================

func (s *BookingCommandsTestSuite) TestSweepExpired() {
	s.Run("success: overdue pending bookings are expired once", func() {
		s.SetupTest()
		stale := s.create(s.userID, "H1", "H2")
		kept := s.create(s.userID, "H3")
		_, err := s.cmds.Confirm(s.ctx, kept.ID, s.pay(kept), s.userID)
		s.Require().NoError(err)

		s.clock.Add(16 * time.Minute)
		fresh := s.create(s.userID, "H4")

		n, err := s.expiry.SweepExpired(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
		s.Equal(booking.StatusExpired, s.store.Booking(stale.ID).Status())
		s.Equal(booking.StatusConfirmed, s.store.Booking(kept.ID).Status())
		s.Equal(booking.StatusPending, s.store.Booking(fresh.ID).Status())
		s.ElementsMatch([]showtime.SeatID{"H3", "H4"}, s.committed().BookedSeatIDs())

		n, err = s.expiry.SweepExpired(s.ctx)
		s.Require().NoError(err)
		s.Zero(n)
		s.Equal(8, s.committed().Available())
	})

	s.Run("success: per-booking failures are skipped", func() {
		s.SetupTest()
		s.create(s.userID, "J1")
		s.create(s.userID, "J2")
		s.clock.Add(time.Hour)
		s.store.InjectFault("Bookings.Update", errors.New("deadlock"))

		n, err := s.expiry.SweepExpired(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)

		n, err = s.expiry.SweepExpired(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
		s.Equal(10, s.committed().Available())
	})

	s.Run("success: backlog larger than one batch is drained", func() {
		s.SetupTest()
		small := commands.NewExpiryCommands(s.store, commands.SweepPolicy{Concurrency: 2, BatchSize: 2}, s.clock, discardLogger())
		var ids []uuid.UUID
		for _, seat := range []string{"L1", "L2", "L3", "L4", "L5"} {
			ids = append(ids, s.create(uuid.New(), seat).ID)
			s.clock.Add(time.Second)
		}
		s.clock.Add(time.Hour)

		n, err := small.SweepExpired(s.ctx)
		s.Require().NoError(err)
		s.Equal(5, n)
		for _, id := range ids {
			s.Equal(booking.StatusExpired, s.store.Booking(id).Status())
		}
		s.Equal(10, s.committed().Available())
	})

	s.Run("success: a full batch of failures ends the sweep", func() {
		s.SetupTest()
		small := commands.NewExpiryCommands(s.store, commands.SweepPolicy{Concurrency: 1, BatchSize: 1}, s.clock, discardLogger())
		s.create(s.userID, "M1")
		s.clock.Add(time.Hour)
		s.store.InjectFault("Bookings.Update", errors.New("deadlock"))

		n, err := small.SweepExpired(s.ctx)
		s.Require().NoError(err)
		s.Zero(n)
		s.Equal(9, s.committed().Available())
	})

	s.Run("error: listing failure is returned", func() {
		s.SetupTest()
		s.store.InjectFault("Reads.ExpiredPendingBookingIDs", errors.New("pool closed"))
		_, err := s.expiry.SweepExpired(s.ctx)
		s.ErrorIs(err, errs.ErrDatabaseOperationFailed)
	})
}

func (s *BookingCommandsTestSuite) TestExpire() {
	b := s.create(s.userID, "K1")

	expired, err := s.expiry.Expire(s.ctx, b.ID)
	s.Require().NoError(err)
	s.False(expired, "hold still running")

	s.clock.Add(15*time.Minute + time.Second)
	expired, err = s.expiry.Expire(s.ctx, b.ID)
	s.Require().NoError(err)
	s.True(expired)

	expired, err = s.expiry.Expire(s.ctx, b.ID)
	s.Require().NoError(err)
	s.False(expired, "already expired")
	s.Equal(10, s.committed().Available())

	var topics []string
	for _, job := range s.store.Notifications() {
		topics = append(topics, job.Topic)
	}
	s.Equal([]string{"booking.expired"}, topics)
}
