//go:build unit

package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/infra/schedule"
	"cinebook/internal/pkg/clock"
	"cinebook/internal/pkg/config"
	"cinebook/internal/usecase/commands"
	"cinebook/internal/worker"
	"cinebook/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var openedAt = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

type harness struct {
	store    *memstore.Store
	clock    *clock.MockClock
	expiry   commands.ExpiryCommands
	timers   *worker.ExpiryTimers
	bookings commands.BookingCommands
	st       *showtime.Showtime
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &harness{store: memstore.New(), clock: clock.NewMockClock(openedAt)}

	st, err := showtime.NewShowtime(showtime.NewShowtimeParams{
		MovieID:   uuid.New(),
		TheatreID: uuid.New(),
		Screen:    3,
		ShowDate:  openedAt,
		StartTime: "21:30",
		Pricing:   []showtime.PriceRule{{Category: showtime.CategoryPlatinum, BasePrice: 350}},
		Total:     6,
	})
	require.NoError(t, err)
	h.st = st
	h.store.AddShowtime(st)

	h.expiry = commands.NewExpiryCommands(h.store, commands.SweepPolicy{Concurrency: 2, BatchSize: 50}, h.clock, logger)
	h.timers = worker.NewExpiryTimers(h.expiry, h.store, h.clock, logger)
	t.Cleanup(func() { _ = h.timers.Stop(context.Background()) })

	policy := commands.BookingPolicy{
		Hold:         15 * time.Minute,
		MaxSeats:     10,
		Cancellation: booking.DefaultCancellationPolicy(),
		ShowLocation: time.UTC,
	}
	h.bookings = commands.NewBookingCommands(h.store, nil, nil, h.timers, policy, h.clock, logger)
	return h
}

func (h *harness) hold(t *testing.T, seats ...string) uuid.UUID {
	t.Helper()
	sel := make([]commands.SeatSelection, len(seats))
	for i, s := range seats {
		sel[i] = commands.SeatSelection{SeatID: s, Category: "Platinum"}
	}
	res, err := h.bookings.Create(context.Background(), commands.CreateBookingInput{ShowtimeID: h.st.ID(), Seats: sel}, uuid.New(), nil)
	require.NoError(t, err)
	return res.Booking.ID
}

func (h *harness) sweeper(sched worker.SweepSchedule) *worker.Sweeper {
	cfg := config.BookingConfig{
		SweepInterval:     5 * time.Minute,
		SweepPollInterval: 10 * time.Millisecond,
		SweepLease:        2 * time.Minute,
	}
	return worker.NewSweeper(h.expiry, sched, cfg, h.clock, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSweeperRunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("sweeps and moves the marker forward", func(t *testing.T) {
		h := newHarness(t)
		id := h.hold(t, "A1", "A2")
		h.clock.Add(20 * time.Minute)
		sched := schedule.NewLocalSchedule(h.clock)

		ran, err := h.sweeper(sched).RunOnce(ctx)
		require.NoError(t, err)
		assert.True(t, ran)
		assert.Equal(t, booking.StatusExpired, h.store.Booking(id).Status())
		assert.Equal(t, 6, h.store.Showtime(h.st.ID()).Available())

		due, ok, err := sched.NextDue(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, h.clock.Now().Add(5*time.Minute), due)
	})

	t.Run("skips while another replica holds the lease", func(t *testing.T) {
		h := newHarness(t)
		id := h.hold(t, "B1")
		h.clock.Add(20 * time.Minute)
		sched := schedule.NewLocalSchedule(h.clock)
		acquired, err := sched.TryAcquire(ctx, "other-replica", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		ran, err := h.sweeper(sched).RunOnce(ctx)
		require.NoError(t, err)
		assert.False(t, ran)
		assert.Equal(t, booking.StatusPending, h.store.Booking(id).Status())

		h.clock.Add(time.Minute)
		ran, err = h.sweeper(sched).RunOnce(ctx)
		require.NoError(t, err)
		assert.True(t, ran, "lease lapsed")
	})

	t.Run("failed sweep leaves the marker alone", func(t *testing.T) {
		h := newHarness(t)
		sched := schedule.NewLocalSchedule(h.clock)
		h.store.InjectFault("Reads.ExpiredPendingBookingIDs", errors.New("pool exhausted"))

		ran, err := h.sweeper(sched).RunOnce(ctx)
		assert.Error(t, err)
		assert.False(t, ran)
		_, ok, _ := sched.NextDue(ctx)
		assert.False(t, ok)

		acquired, err := sched.TryAcquire(ctx, "next", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired, "lease released after failure")
	})
}

func TestSweeperTick(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	sched := schedule.NewLocalSchedule(h.clock)
	s := h.sweeper(sched)

	ran, err := s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, ran, "no marker yet")

	h.clock.Add(4 * time.Minute)
	ran, err = s.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, ran, "not due")

	h.clock.Add(time.Minute)
	ran, err = s.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, ran, "due exactly at the marker")
}

func TestSweeperStartStop(t *testing.T) {
	h := newHarness(t)
	id := h.hold(t, "C1")
	h.clock.Add(time.Hour)

	s := h.sweeper(schedule.NewLocalSchedule(h.clock))
	s.Start()
	require.Eventually(t, func() bool {
		return h.store.Booking(id).Status() == booking.StatusExpired
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestExpiryTimers(t *testing.T) {
	t.Run("fires once the hold has lapsed", func(t *testing.T) {
		h := newHarness(t)
		id := h.hold(t, "D1")
		assert.Equal(t, 1, h.timers.Pending())

		h.clock.Add(16 * time.Minute)
		h.timers.Schedule(id, h.store.Booking(id).ExpiresAt())

		require.Eventually(t, func() bool {
			return h.store.Booking(id).Status() == booking.StatusExpired
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, 6, h.store.Showtime(h.st.ID()).Available())
		assert.Zero(t, h.timers.Pending())
	})

	t.Run("rearm restores timers for pending bookings", func(t *testing.T) {
		h := newHarness(t)
		h.hold(t, "E1")
		h.hold(t, "E2")
		require.NoError(t, h.timers.Stop(context.Background()))
		assert.Zero(t, h.timers.Pending())

		fresh := worker.NewExpiryTimers(h.expiry, h.store, h.clock, slog.New(slog.NewTextHandler(io.Discard, nil)))
		defer func() { _ = fresh.Stop(context.Background()) }()
		require.NoError(t, fresh.Rearm(context.Background()))
		assert.Equal(t, 2, fresh.Pending())
	})

	t.Run("stopped timers do not schedule", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.timers.Stop(context.Background()))
		h.timers.Schedule(uuid.New(), openedAt)
		assert.Zero(t, h.timers.Pending())
	})
}
