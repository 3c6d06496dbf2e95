package worker

import (
	"context"
	"log/slog"
	"time"

	"cinebook/internal/pkg/clock"
	"cinebook/internal/pkg/config"
	"cinebook/internal/usecase/commands"

	"github.com/google/uuid"
)

// SweepSchedule persists when the next sweep is due and hands out the
// lease that keeps two processes from sweeping at once.
type SweepSchedule interface {
	TryAcquire(ctx context.Context, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, owner string) error
	NextDue(ctx context.Context) (time.Time, bool, error)
	SetNextDue(ctx context.Context, at time.Time) error
}

type Sweeper struct {
	expiry   commands.ExpiryCommands
	schedule SweepSchedule
	clock    clock.Clock
	logger   *slog.Logger

	interval time.Duration
	poll     time.Duration
	lease    time.Duration
	owner    string

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(
	expiry commands.ExpiryCommands,
	schedule SweepSchedule,
	cfg config.BookingConfig,
	clock clock.Clock,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		expiry:   expiry,
		schedule: schedule,
		clock:    clock,
		logger:   logger,
		interval: cfg.SweepInterval,
		poll:     cfg.SweepPollInterval,
		lease:    cfg.SweepLease,
		owner:    uuid.NewString(),
	}
}

// Start sweeps once, then keeps polling the schedule until Stop.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
}

func (s *Sweeper) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	_, _ = s.RunOnce(ctx)

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Tick(ctx)
		}
	}
}

// Tick sweeps only when the next-due marker is missing or has passed.
func (s *Sweeper) Tick(ctx context.Context) (bool, error) {
	due, ok, err := s.schedule.NextDue(ctx)
	if err != nil {
		s.logger.Warn("failed to read sweep schedule", slog.String("error", err.Error()))
		return false, err
	}
	if ok && s.clock.Now().Before(due) {
		return false, nil
	}
	return s.RunOnce(ctx)
}

// RunOnce sweeps under the lease and moves the marker forward. It reports
// false when another owner holds the lease.
func (s *Sweeper) RunOnce(ctx context.Context) (bool, error) {
	acquired, err := s.schedule.TryAcquire(ctx, s.owner, s.lease)
	if err != nil {
		s.logger.Warn("failed to acquire sweep lease", slog.String("error", err.Error()))
		return false, err
	}
	if !acquired {
		s.logger.Debug("sweep lease held elsewhere")
		return false, nil
	}
	defer s.release()

	start := s.clock.Now()
	expired, err := s.expiry.SweepExpired(ctx)
	if err != nil {
		// Marker untouched so the next poll tries again.
		s.logger.Error("expiry sweep failed", slog.String("error", err.Error()))
		return false, err
	}

	if err := s.schedule.SetNextDue(ctx, s.clock.Now().Add(s.interval)); err != nil {
		s.logger.Warn("failed to persist next sweep time", slog.String("error", err.Error()))
	}

	s.logger.Info("expiry sweep completed",
		slog.Int("expired", expired),
		slog.Duration("took", s.clock.Now().Sub(start)))
	return true, nil
}

func (s *Sweeper) release() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.schedule.Release(ctx, s.owner); err != nil {
		s.logger.Warn("failed to release sweep lease", slog.String("error", err.Error()))
	}
}
