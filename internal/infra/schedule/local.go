package schedule

import (
	"context"
	"sync"
	"time"

	"cinebook/internal/pkg/clock"
)

// LocalSchedule is the single-process fallback used when no Redis is
// configured. State is lost on restart; the sweeper then runs at startup.
type LocalSchedule struct {
	mu         sync.Mutex
	clock      clock.Clock
	owner      string
	leaseUntil time.Time
	nextDue    time.Time
	hasNextDue bool
}

func NewLocalSchedule(clock clock.Clock) *LocalSchedule {
	return &LocalSchedule{clock: clock}
}

func (s *LocalSchedule) TryAcquire(_ context.Context, owner string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.owner != "" && now.Before(s.leaseUntil) {
		return false, nil
	}
	s.owner = owner
	s.leaseUntil = now.Add(ttl)
	return true, nil
}

func (s *LocalSchedule) Release(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner == owner {
		s.owner = ""
		s.leaseUntil = time.Time{}
	}
	return nil
}

func (s *LocalSchedule) NextDue(context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextDue, s.hasNextDue, nil
}

func (s *LocalSchedule) SetNextDue(_ context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextDue = at
	s.hasNextDue = true
	return nil
}
