package commands

//go:generate mockgen -source=refund.go -destination=../../../tests/mock/commands/refund.go -package=commandsmock

import (
	"context"
	"log/slog"

	"cinebook/internal/domain/booking"
	"cinebook/internal/infra"
	"cinebook/internal/pkg/clock"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/queries"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundResult struct {
	Booking  *queries.BookingView
	RefundID string
	Amount   decimal.Decimal
}

// RefundCommands settles the refunds that cancellations leave pending.
type RefundCommands interface {
	ProcessRefund(ctx context.Context, bookingID uuid.UUID) (*RefundResult, error)
}

type refundCommandsImpl struct {
	uow      shared.UnitOfWork
	payments PaymentGateway
	clock    clock.Clock
	logger   *slog.Logger
}

func NewRefundCommands(uow shared.UnitOfWork, payments PaymentGateway, clock clock.Clock, logger *slog.Logger) RefundCommands {
	return &refundCommandsImpl{
		uow:      uow,
		payments: payments,
		clock:    clock,
		logger:   logger,
	}
}

// ProcessRefund reads what is owed, calls the provider outside any
// transaction, then records the outcome under a fresh lock. A provider
// failure is persisted as a failed refund, which may be retried.
func (c *refundCommandsImpl) ProcessRefund(ctx context.Context, bookingID uuid.UUID) (*RefundResult, error) {
	var (
		due     decimal.Decimal
		payment *shared.PaymentRecord
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return translateBookingErr(err)
		}
		if due, err = b.RefundDue(); err != nil {
			return err
		}
		payment, err = tx.Payments().LockCompletedByBookingID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if payment.PaymentID == nil {
			return errs.Wrap(ErrPaymentNotFound, "payment was never captured")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		receipt *RefundReceipt
		gwErr   error
	)
	if due.IsPositive() {
		receipt, gwErr = c.payments.Refund(ctx, *payment.PaymentID, toPaise(due))
	} else {
		receipt = &RefundReceipt{}
	}
	if gwErr != nil {
		c.logger.Warn("refund rejected by provider",
			slog.String("booking_id", bookingID.String()),
			slog.String("payment_id", *payment.PaymentID),
			slog.String("error", gwErr.Error()))
	}

	var settled *booking.Booking
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		settled = nil
		now := c.clock.Now()

		b, err := tx.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return translateBookingErr(err)
		}
		if err := b.SettleRefund(now, gwErr == nil); err != nil {
			return err
		}
		if gwErr == nil {
			if err := tx.Payments().MarkRefunded(ctx, payment.ID, receipt.ID, now); err != nil {
				if infra.IsKind(err, infra.KindConflict) {
					return errs.Wrap(booking.ErrRefundNotDue, "payment already refunded")
				}
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if gwErr == nil {
			if err := createNotificationJob(ctx, tx, b, "booking.refunded", now); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		settled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if gwErr != nil {
		return nil, errs.Mark(gwErr, ErrPaymentGateway)
	}

	c.logger.Info("refund processed",
		slog.String("booking_id", bookingID.String()),
		slog.String("refund_id", receipt.ID),
		slog.String("amount", due.String()))
	return &RefundResult{Booking: queries.NewBookingView(settled), RefundID: receipt.ID, Amount: due}, nil
}

func toPaise(rupees decimal.Decimal) int64 {
	return rupees.Shift(2).Round(0).IntPart()
}
