package commands

import (
	"context"
	"log/slog"
	"sync/atomic"

	"cinebook/internal/domain/booking"
	"cinebook/internal/pkg/clock"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ExpiryCommands are system operations; no requester is involved.
type ExpiryCommands interface {
	// Expire reports whether the booking moved to expired. A booking that
	// is not pending or not past its deadline is left alone.
	Expire(ctx context.Context, bookingID uuid.UUID) (bool, error)
	// SweepExpired expires every overdue pending booking and returns how
	// many it expired. Per-booking failures are logged and skipped.
	SweepExpired(ctx context.Context) (int, error)
}

type expiryCommandsImpl struct {
	uow    shared.UnitOfWork
	policy SweepPolicy
	clock  clock.Clock
	logger *slog.Logger
}

func NewExpiryCommands(uow shared.UnitOfWork, policy SweepPolicy, clock clock.Clock, logger *slog.Logger) ExpiryCommands {
	if policy.Concurrency < 1 {
		policy.Concurrency = 1
	}
	if policy.BatchSize < 1 {
		policy.BatchSize = 500
	}
	return &expiryCommandsImpl{uow: uow, policy: policy, clock: clock, logger: logger}
}

func (c *expiryCommandsImpl) Expire(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	expired := false
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired = false
		now := c.clock.Now()

		b, err := tx.Bookings().LockByID(ctx, bookingID)
		if err != nil {
			return translateBookingErr(err)
		}
		if !b.IsExpirable(now) {
			return nil
		}
		if err := b.Expire(now); err != nil {
			return err
		}

		if err := releaseSeats(ctx, tx, b); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := createNotificationJob(ctx, tx, b, "booking.expired", now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		expired = b.Status() == booking.StatusExpired
		return nil
	})
	if err != nil {
		return false, err
	}
	return expired, nil
}

// SweepExpired drains the backlog batch by batch and stops at the first
// short batch. Bookings that failed stay pending and come back in the
// next listing, so a batch with nothing unseen also ends the sweep.
func (c *expiryCommandsImpl) SweepExpired(ctx context.Context) (int, error) {
	var (
		total   int
		batches int
		seen    = make(map[uuid.UUID]struct{})
	)
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		ids, err := c.uow.CommandReads().ExpiredPendingBookingIDs(ctx, c.clock.Now(), c.policy.BatchSize)
		if err != nil {
			return total, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		var fresh []uuid.UUID
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				fresh = append(fresh, id)
			}
		}
		if len(fresh) == 0 {
			break
		}

		total += c.expireBatch(ctx, fresh)
		batches++
		if len(ids) < c.policy.BatchSize {
			break
		}
	}

	if batches > 0 {
		c.logger.Info("expiry sweep finished",
			slog.Int("batches", batches),
			slog.Int("candidates", len(seen)),
			slog.Int("expired", total))
	}
	return total, nil
}

func (c *expiryCommandsImpl) expireBatch(ctx context.Context, ids []uuid.UUID) int {
	var (
		g       errgroup.Group
		expired atomic.Int64
	)
	g.SetLimit(c.policy.Concurrency)
	for _, id := range ids {
		g.Go(func() error {
			ok, err := c.Expire(ctx, id)
			if err != nil {
				c.logger.Warn("failed to expire booking",
					slog.String("booking_id", id.String()),
					slog.String("error", err.Error()))
				return nil
			}
			if ok {
				expired.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(expired.Load())
}
