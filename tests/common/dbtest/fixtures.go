//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by the pool and by a transaction.
type DBLike = sqlc.DBTX

type PriceFixture struct {
	Category  string
	BasePrice int64
	// Dynamic multipliers; zero means 1.
	Weekend decimal.Decimal
	Peak    decimal.Decimal
}

type ShowtimeFixture struct {
	ShowDate  time.Time
	StartTime string
	Total     int
	Prices    []PriceFixture
	Inactive  bool
}

// ShowtimeAt builds a fixture starting at the given instant in loc.
func ShowtimeAt(at time.Time, loc *time.Location, total int, prices ...PriceFixture) ShowtimeFixture {
	local := at.In(loc)
	return ShowtimeFixture{
		ShowDate:  time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		StartTime: local.Format("15:04"),
		Total:     total,
		Prices:    prices,
	}
}

func CreateTestShowtime(t *testing.T, db DBLike, f ShowtimeFixture) uuid.UUID {
	t.Helper()

	id := uuid.New()
	ctx := context.Background()
	q := sqlc.New()
	err := q.CreateShowtime(ctx, db, sqlc.CreateShowtimeParams{
		ID:         id,
		MovieID:    uuid.New(),
		TheatreID:  uuid.New(),
		Screen:     1,
		ShowDate:   pgconv.DateToPgtype(f.ShowDate),
		StartTime:  f.StartTime,
		TotalSeats: int32(f.Total),
		IsActive:   !f.Inactive,
	})
	require.NoError(t, err)

	for _, p := range f.Prices {
		weekend, peak := orOne(p.Weekend), orOne(p.Peak)
		err := q.CreateShowtimePrice(ctx, db, sqlc.CreateShowtimePriceParams{
			ShowtimeID:         id,
			Category:           p.Category,
			BasePrice:          p.BasePrice,
			DynamicEnabled:     !p.Weekend.IsZero() || !p.Peak.IsZero(),
			WeekendMultiplier:  pgconv.DecimalToNumeric(weekend),
			PeakHourMultiplier: pgconv.DecimalToNumeric(peak),
		})
		require.NoError(t, err)
	}
	return id
}

func orOne(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.NewFromInt(1)
	}
	return d
}

func AvailableSeats(t *testing.T, db DBLike, showtimeID uuid.UUID) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(), "SELECT available_seats FROM showtimes WHERE id = $1", showtimeID).Scan(&n)
	require.NoError(t, err)
	return n
}

func HeldSeatCount(t *testing.T, db DBLike, showtimeID uuid.UUID) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM showtime_seats WHERE showtime_id = $1 AND status IN ('blocked', 'booked')", showtimeID).Scan(&n)
	require.NoError(t, err)
	return n
}

// BackdateHold moves a pending booking's deadline into the past.
func BackdateHold(t *testing.T, db DBLike, bookingID uuid.UUID, by time.Duration) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		"UPDATE bookings SET expires_at = now() - $2::interval WHERE id = $1",
		bookingID, fmt.Sprintf("%d seconds", int(by.Seconds())))
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
