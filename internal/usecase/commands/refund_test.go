//go:build unit

package commands_test

import (
	"errors"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/usecase/commands"
	"cinebook/internal/usecase/queries"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
)

// cancelled books, pays, confirms and cancels three hours before the show.
func (s *BookingCommandsTestSuite) cancelled(showtimeID uuid.UUID, seats []commands.SeatSelection) (*queries.BookingView, commands.PaymentReference) {
	s.T().Helper()
	s.clock.Set(openedAt)
	res, err := s.cmds.Create(s.ctx, commands.CreateBookingInput{ShowtimeID: showtimeID, Seats: seats}, s.userID, nil)
	s.Require().NoError(err)
	ref := s.pay(res.Booking)
	_, err = s.cmds.Confirm(s.ctx, res.Booking.ID, ref, s.userID)
	s.Require().NoError(err)

	s.clock.Set(showsAt.Add(-3 * time.Hour))
	out, err := s.cmds.Cancel(s.ctx, res.Booking.ID, s.userID)
	s.Require().NoError(err)
	return out.Booking, ref
}

func (s *BookingCommandsTestSuite) refundStatus(id uuid.UUID) booking.RefundStatus {
	b := s.store.Booking(id)
	s.Require().NotNil(b.Cancellation())
	return b.Cancellation().RefundStatus
}

func (s *BookingCommandsTestSuite) TestProcessRefund() {
	s.Run("success: refund reaches the provider and settles both records", func() {
		s.SetupTest()
		b, ref := s.cancelled(s.showtime.ID(), gold("N1", "N2"))

		res, err := s.refunds.ProcessRefund(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal("rfnd_1", res.RefundID)
		s.Equal("360", res.Amount.String())
		s.Equal(string(booking.RefundProcessed), res.Booking.Cancellation.RefundStatus)
		s.Equal([]refundCall{{PaymentID: ref.PaymentID, Amount: 36000}}, s.gateway.Refunds())

		p := s.store.Payment(ref.OrderID)
		s.Equal(shared.PaymentRefunded, p.Status)
		s.Require().NotNil(p.RefundID)
		s.Equal("rfnd_1", *p.RefundID)
		s.Require().NotNil(p.RefundedAt)
		s.Equal(s.clock.Now(), *p.RefundedAt)

		jobs := s.store.Notifications()
		s.Equal("booking.refunded", jobs[len(jobs)-1].Topic)
	})

	s.Run("success: paise survive into the provider amount", func() {
		s.SetupTest()
		st, err := showtime.NewShowtime(showtime.NewShowtimeParams{
			MovieID:   uuid.New(),
			TheatreID: uuid.New(),
			Screen:    2,
			ShowDate:  showDate,
			StartTime: "19:00",
			Pricing:   []showtime.PriceRule{{Category: showtime.CategoryGold, BasePrice: 185}},
			Total:     10,
		})
		s.Require().NoError(err)
		s.store.AddShowtime(st)

		b, ref := s.cancelled(st.ID(), gold("P1", "P2", "P3"))
		s.Equal(int64(555), b.TotalAmount)
		s.Equal("499.5", b.Cancellation.RefundAmount.String())

		res, err := s.refunds.ProcessRefund(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal("499.5", res.Amount.String())
		s.Equal([]refundCall{{PaymentID: ref.PaymentID, Amount: 49950}}, s.gateway.Refunds())
	})

	s.Run("error: provider failure is recorded and may be retried", func() {
		s.SetupTest()
		b, ref := s.cancelled(s.showtime.ID(), gold("Q1"))
		s.gateway.refundErr = errors.New("payment provider returned 502")

		_, err := s.refunds.ProcessRefund(s.ctx, b.ID)
		s.ErrorIs(err, commands.ErrPaymentGateway)
		s.Equal(booking.RefundFailed, s.refundStatus(b.ID))
		s.Equal(shared.PaymentCompleted, s.store.Payment(ref.OrderID).Status)

		s.gateway.refundErr = nil
		res, err := s.refunds.ProcessRefund(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal(string(booking.RefundProcessed), res.Booking.Cancellation.RefundStatus)
		s.Equal(shared.PaymentRefunded, s.store.Payment(ref.OrderID).Status)
	})

	s.Run("error: a processed refund is not paid twice", func() {
		s.SetupTest()
		b, _ := s.cancelled(s.showtime.ID(), gold("R1"))
		_, err := s.refunds.ProcessRefund(s.ctx, b.ID)
		s.Require().NoError(err)

		_, err = s.refunds.ProcessRefund(s.ctx, b.ID)
		s.ErrorIs(err, booking.ErrRefundNotDue)
		s.Len(s.gateway.Refunds(), 1)
	})

	s.Run("error: a failed database write leaves the refund pending", func() {
		s.SetupTest()
		b, ref := s.cancelled(s.showtime.ID(), gold("S1"))
		s.store.InjectFault("Payments.MarkRefunded", errors.New("connection reset"))

		_, err := s.refunds.ProcessRefund(s.ctx, b.ID)
		s.Error(err)
		s.Equal(booking.RefundPending, s.refundStatus(b.ID))
		s.Equal(shared.PaymentCompleted, s.store.Payment(ref.OrderID).Status)
	})

	s.Run("error: confirmed bookings owe nothing", func() {
		s.SetupTest()
		b := s.create(s.userID, "T1")
		_, err := s.cmds.Confirm(s.ctx, b.ID, s.pay(b), s.userID)
		s.Require().NoError(err)

		_, err = s.refunds.ProcessRefund(s.ctx, b.ID)
		s.ErrorIs(err, booking.ErrRefundNotDue)
		s.Empty(s.gateway.Refunds())
	})

	s.Run("error: unknown booking", func() {
		s.SetupTest()
		_, err := s.refunds.ProcessRefund(s.ctx, uuid.New())
		s.ErrorIs(err, commands.ErrBookingNotFound)
	})
}
