package showtime

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	peakHourStart = 18
	peakHourEnd   = 23
)

type DynamicPricing struct {
	Enabled            bool
	WeekendMultiplier  decimal.Decimal
	PeakHourMultiplier decimal.Decimal
}

// PriceRule prices one seat category. BasePrice is in whole rupees.
type PriceRule struct {
	Category  Category
	BasePrice int64
	Dynamic   DynamicPricing
}

func NewPriceRule(category Category, basePrice int64, dynamic DynamicPricing) (PriceRule, error) {
	if !category.IsValid() {
		return PriceRule{}, ErrCategoryNotFound
	}
	if basePrice < 0 {
		return PriceRule{}, ErrNegativePrice
	}
	if dynamic.Enabled && (!dynamic.WeekendMultiplier.IsPositive() || !dynamic.PeakHourMultiplier.IsPositive()) {
		return PriceRule{}, ErrInvalidMultiplier
	}
	return PriceRule{Category: category, BasePrice: basePrice, Dynamic: dynamic}, nil
}

// price applies the weekend multiplier, then the peak multiplier, then rounds
// half away from zero to a whole rupee.
func (r PriceRule) price(showDate time.Time, startHour int) int64 {
	if !r.Dynamic.Enabled {
		return r.BasePrice
	}

	amount := decimal.NewFromInt(r.BasePrice)
	if isWeekend(showDate) {
		amount = amount.Mul(r.Dynamic.WeekendMultiplier)
	}
	if isPeakHour(startHour) {
		amount = amount.Mul(r.Dynamic.PeakHourMultiplier)
	}
	return amount.Round(0).IntPart()
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func isPeakHour(hour int) bool {
	return hour >= peakHourStart && hour <= peakHourEnd
}
