package schedule

import (
	"context"
	"time"

	"cinebook/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// Deletes the lease only while it still belongs to the caller.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisSchedule keeps the sweep lease and the next-due marker in Redis so
// they survive restarts and are shared between instances.
type RedisSchedule struct {
	rdb      *redis.Client
	leaseKey string
	dueKey   string
}

func NewRedisSchedule(rdb *redis.Client, keyPrefix string) *RedisSchedule {
	return &RedisSchedule{
		rdb:      rdb,
		leaseKey: keyPrefix + ":sweep:lease",
		dueKey:   keyPrefix + ":sweep:next_due",
	}
}

func (s *RedisSchedule) TryAcquire(ctx context.Context, owner string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.leaseKey, owner, ttl).Result()
	if err != nil {
		return false, errs.Wrap(err, "acquire sweep lease")
	}
	return ok, nil
}

func (s *RedisSchedule) Release(ctx context.Context, owner string) error {
	if err := releaseScript.Run(ctx, s.rdb, []string{s.leaseKey}, owner).Err(); err != nil {
		return errs.Wrap(err, "release sweep lease")
	}
	return nil
}

func (s *RedisSchedule) NextDue(ctx context.Context) (time.Time, bool, error) {
	ms, err := s.rdb.Get(ctx, s.dueKey).Int64()
	if errs.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, errs.Wrap(err, "read next sweep marker")
	}
	return time.UnixMilli(ms), true, nil
}

func (s *RedisSchedule) SetNextDue(ctx context.Context, at time.Time) error {
	if err := s.rdb.Set(ctx, s.dueKey, at.UnixMilli(), 0).Err(); err != nil {
		return errs.Wrap(err, "write next sweep marker")
	}
	return nil
}
