package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cinebook/internal/pkg/clock"
	"cinebook/internal/usecase/commands"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	// Expire needs now strictly after expiresAt.
	expiryGrace = time.Second
	rearmLimit  = 10000
)

// ExpiryTimers arms one in-process timer per pending booking. Timers are a
// latency optimisation only: they die with the process and the sweeper
// catches whatever they miss.
type ExpiryTimers struct {
	expiry commands.ExpiryCommands
	reads  shared.CommandReads
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	timers  map[uuid.UUID]*time.Timer
	stopped bool
	wg      sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

func NewExpiryTimers(expiry commands.ExpiryCommands, uow shared.UnitOfWork, clock clock.Clock, logger *slog.Logger) *ExpiryTimers {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExpiryTimers{
		expiry: expiry,
		reads:  uow.CommandReads(),
		clock:  clock,
		logger: logger,
		timers: make(map[uuid.UUID]*time.Timer),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (t *ExpiryTimers) Schedule(bookingID uuid.UUID, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}

	if existing, ok := t.timers[bookingID]; ok {
		existing.Stop()
	}
	delay := max(at.Sub(t.clock.Now())+expiryGrace, 0)
	t.timers[bookingID] = time.AfterFunc(delay, func() { t.fire(bookingID) })
}

func (t *ExpiryTimers) fire(bookingID uuid.UUID) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	delete(t.timers, bookingID)
	t.wg.Add(1)
	t.mu.Unlock()
	defer t.wg.Done()

	expired, err := t.expiry.Expire(t.ctx, bookingID)
	if err != nil {
		t.logger.Warn("expiry timer failed",
			slog.String("booking_id", bookingID.String()),
			slog.String("error", err.Error()))
		return
	}
	if expired {
		t.logger.Info("booking expired by timer", slog.String("booking_id", bookingID.String()))
	}
}

// Rearm restores timers for bookings that were pending before a restart.
func (t *ExpiryTimers) Rearm(ctx context.Context) error {
	deadlines, err := t.reads.PendingBookingDeadlines(ctx, rearmLimit)
	if err != nil {
		return err
	}
	for _, d := range deadlines {
		t.Schedule(d.BookingID, d.ExpiresAt)
	}
	t.logger.Info("expiry timers rearmed", slog.Int("count", len(deadlines)))
	return nil
}

func (t *ExpiryTimers) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}

// Stop cancels armed timers and waits for in-flight expirations.
func (t *ExpiryTimers) Stop(ctx context.Context) error {
	t.mu.Lock()
	t.stopped = true
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.mu.Unlock()
	t.cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
