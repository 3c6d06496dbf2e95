package showtime

import (
	"regexp"

	"cinebook/internal/pkg/errs"
)

type Category string

const (
	CategoryPremium  Category = "Premium"
	CategoryGold     Category = "Gold"
	CategoryPlatinum Category = "Platinum"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryPremium, CategoryGold, CategoryPlatinum:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", errs.Wrapf(ErrCategoryNotFound, "unknown seat category %q", s)
	}
	return c, nil
}

// SeatStatus of a hold entry. StatusAvailable is a freed entry that was not
// compacted yet and does not count as a hold.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "available"
	StatusBlocked   SeatStatus = "blocked"
	StatusBooked    SeatStatus = "booked"
)

func (s SeatStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBlocked, StatusBooked:
		return true
	default:
		return false
	}
}

func (s SeatStatus) Holds() bool {
	return s == StatusBlocked || s == StatusBooked
}

func (s SeatStatus) String() string {
	return string(s)
}

var seatIDPattern = regexp.MustCompile(`^[A-Z]\d{1,2}$`)

// SeatID is a row letter followed by a one or two digit seat number, e.g. "A1", "J12".
type SeatID string

func NewSeatID(s string) (SeatID, error) {
	if !seatIDPattern.MatchString(s) {
		return "", errs.Wrapf(ErrInvalidSeatID, "%q", s)
	}
	return SeatID(s), nil
}

func (s SeatID) String() string {
	return string(s)
}

var startTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
