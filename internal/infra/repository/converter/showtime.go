package converter

import (
	"cinebook/internal/domain/showtime"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

func ShowtimeFromInfra(row sqlc.Showtimes, prices []sqlc.ShowtimePrices, seats []sqlc.ListShowtimeSeatsRow) (*showtime.Showtime, error) {
	if err := showtime.ValidateStartTime(row.StartTime); err != nil {
		return nil, err
	}

	pricing := make([]showtime.PriceRule, 0, len(prices))
	for _, p := range prices {
		rule, err := PriceRuleFromInfra(p)
		if err != nil {
			return nil, err
		}
		pricing = append(pricing, rule)
	}

	holds := make([]showtime.SeatHold, 0, len(seats))
	for _, s := range seats {
		hold := showtime.SeatHold{SeatID: showtime.SeatID(s.SeatID), Status: showtime.SeatStatus(s.Status)}
		if owner := pgconv.UUIDPtrFromPgtype(s.BookingID); owner != nil {
			hold.BookingID = *owner
		}
		holds = append(holds, hold)
	}

	return showtime.ReconstructShowtime(
		row.ID, row.MovieID, row.TheatreID,
		int(row.Screen),
		pgconv.DateFromPgtype(row.ShowDate),
		row.StartTime,
		pricing,
		int(row.TotalSeats), int(row.AvailableSeats),
		holds,
		row.IsActive,
	), nil
}

func PriceRuleFromInfra(p sqlc.ShowtimePrices) (showtime.PriceRule, error) {
	weekend, err := pgconv.DecimalFromNumeric(p.WeekendMultiplier)
	if err != nil {
		return showtime.PriceRule{}, errs.Wrap(err, "weekend multiplier")
	}
	peak, err := pgconv.DecimalFromNumeric(p.PeakHourMultiplier)
	if err != nil {
		return showtime.PriceRule{}, errs.Wrap(err, "peak hour multiplier")
	}
	return showtime.PriceRule{
		Category:  showtime.Category(p.Category),
		BasePrice: p.BasePrice,
		Dynamic: showtime.DynamicPricing{
			Enabled:            p.DynamicEnabled,
			WeekendMultiplier:  weekend,
			PeakHourMultiplier: peak,
		},
	}, nil
}

func HoldToInfra(showtimeID uuid.UUID, hold showtime.SeatHold) sqlc.InsertSeatHoldParams {
	return sqlc.InsertSeatHoldParams{
		ShowtimeID: showtimeID,
		SeatID:     hold.SeatID.String(),
		BookingID:  pgconv.UUIDToPgtype(hold.BookingID),
		Status:     hold.Status.String(),
	}
}
