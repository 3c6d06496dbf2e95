package showtime

import (
	"slices"
	"strconv"
	"time"

	"cinebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound  = errs.New("seat category not found")
	ErrInvalidSeatID     = errs.New("invalid seat id")
	ErrNegativePrice     = errs.New("price cannot be negative")
	ErrInvalidMultiplier = errs.New("dynamic pricing multiplier must be positive")
	ErrInvalidShowtime   = errs.New("invalid showtime")
	ErrSeatUnavailable   = errs.New("seat unavailable")
	ErrHoldNotFound      = errs.New("seat hold not found")
	ErrInventoryExceeded = errs.New("no seats left on showtime")
)

// SeatUnavailableError names the first seat that could not be held.
type SeatUnavailableError struct {
	SeatID SeatID
}

func (e *SeatUnavailableError) Error() string {
	return "seat " + e.SeatID.String() + " is not available"
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

func NewSeatUnavailableError(seat SeatID) error {
	return &SeatUnavailableError{SeatID: seat}
}

type SeatHold struct {
	SeatID    SeatID
	BookingID uuid.UUID
	Status    SeatStatus
}

type Availability struct {
	Total         int
	Available     int
	Booked        int
	BookedSeatIDs []SeatID
}

// Showtime is one screening with its own seat inventory.
// available == total - number of blocked/booked holds after every mutation.
type Showtime struct {
	id        uuid.UUID
	movieID   uuid.UUID
	theatreID uuid.UUID
	screen    int
	showDate  time.Time
	startTime string
	pricing   []PriceRule
	total     int
	available int
	holds     []SeatHold
	isActive  bool
}

type NewShowtimeParams struct {
	ID        uuid.UUID
	MovieID   uuid.UUID
	TheatreID uuid.UUID
	Screen    int
	ShowDate  time.Time
	StartTime string
	Pricing   []PriceRule
	Total     int
}

func NewShowtime(p NewShowtimeParams) (*Showtime, error) {
	if p.Screen < 1 || p.Total < 1 || ValidateStartTime(p.StartTime) != nil {
		return nil, ErrInvalidShowtime
	}
	seen := make(map[Category]struct{}, len(p.Pricing))
	for _, r := range p.Pricing {
		if _, dup := seen[r.Category]; dup {
			return nil, errs.Wrapf(ErrInvalidShowtime, "duplicate price rule for %s", r.Category)
		}
		seen[r.Category] = struct{}{}
	}
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Showtime{
		id:        id,
		movieID:   p.MovieID,
		theatreID: p.TheatreID,
		screen:    p.Screen,
		showDate:  dateOnly(p.ShowDate),
		startTime: p.StartTime,
		pricing:   slices.Clone(p.Pricing),
		total:     p.Total,
		available: p.Total,
		isActive:  true,
	}, nil
}

func ReconstructShowtime(
	id, movieID, theatreID uuid.UUID,
	screen int,
	showDate time.Time,
	startTime string,
	pricing []PriceRule,
	total, available int,
	holds []SeatHold,
	isActive bool,
) *Showtime {
	return &Showtime{
		id:        id,
		movieID:   movieID,
		theatreID: theatreID,
		screen:    screen,
		showDate:  dateOnly(showDate),
		startTime: startTime,
		pricing:   pricing,
		total:     total,
		available: available,
		holds:     holds,
		isActive:  isActive,
	}
}

func (s *Showtime) IsSeatAvailable(seat SeatID) bool {
	h := s.findHold(seat)
	return h < 0 || !s.holds[h].Status.Holds()
}

func (s *Showtime) CalculatePrice(category Category) (int64, error) {
	for _, r := range s.pricing {
		if r.Category == category {
			return r.price(s.showDate, s.startHour()), nil
		}
	}
	return 0, errs.Wrapf(ErrCategoryNotFound, "no price for %s", category)
}

// PlaceHold does not re-run the availability check beyond refusing to
// overwrite an existing hold; callers check IsSeatAvailable first.
func (s *Showtime) PlaceHold(seat SeatID, bookingID uuid.UUID) error {
	if s.available <= 0 {
		return ErrInventoryExceeded
	}
	if h := s.findHold(seat); h >= 0 {
		if s.holds[h].Status.Holds() {
			return NewSeatUnavailableError(seat)
		}
		s.holds[h] = SeatHold{SeatID: seat, BookingID: bookingID, Status: StatusBlocked}
	} else {
		s.holds = append(s.holds, SeatHold{SeatID: seat, BookingID: bookingID, Status: StatusBlocked})
	}
	s.available--
	return nil
}

func (s *Showtime) ConfirmHold(seat SeatID, bookingID uuid.UUID) error {
	h := s.findHold(seat)
	if h < 0 || s.holds[h].BookingID != bookingID || s.holds[h].Status != StatusBlocked {
		return errs.Wrapf(ErrHoldNotFound, "seat %s", seat)
	}
	s.holds[h].Status = StatusBooked
	return nil
}

// ReleaseHold reports whether a hold was removed. Releasing a hold that is
// gone or belongs to another booking changes nothing.
func (s *Showtime) ReleaseHold(seat SeatID, bookingID uuid.UUID) bool {
	h := s.findHold(seat)
	if h < 0 || s.holds[h].BookingID != bookingID || !s.holds[h].Status.Holds() {
		return false
	}
	s.holds = slices.Delete(s.holds, h, h+1)
	s.available++
	return true
}

// StartsAt combines the show date and the local start time in loc.
func (s *Showtime) StartsAt(loc *time.Location) time.Time {
	return CombineDateAndTime(s.showDate, s.startTime, loc)
}

func (s *Showtime) Availability() Availability {
	booked := s.BookedSeatIDs()
	return Availability{
		Total:         s.total,
		Available:     s.available,
		Booked:        len(booked),
		BookedSeatIDs: booked,
	}
}

// BookedSeatIDs lists every seat that is held, blocked or booked.
func (s *Showtime) BookedSeatIDs() []SeatID {
	ids := make([]SeatID, 0, len(s.holds))
	for _, h := range s.holds {
		if h.Status.Holds() {
			ids = append(ids, h.SeatID)
		}
	}
	return ids
}

func (s *Showtime) HoldCount() int {
	n := 0
	for _, h := range s.holds {
		if h.Status.Holds() {
			n++
		}
	}
	return n
}

func (s *Showtime) findHold(seat SeatID) int {
	return slices.IndexFunc(s.holds, func(h SeatHold) bool { return h.SeatID == seat })
}

func (s *Showtime) startHour() int {
	hour, _ := clockTime(s.startTime)
	return hour
}

func (s *Showtime) ID() uuid.UUID        { return s.id }
func (s *Showtime) MovieID() uuid.UUID   { return s.movieID }
func (s *Showtime) TheatreID() uuid.UUID { return s.theatreID }
func (s *Showtime) Screen() int          { return s.screen }
func (s *Showtime) ShowDate() time.Time  { return s.showDate }
func (s *Showtime) StartTime() string    { return s.startTime }
func (s *Showtime) Pricing() []PriceRule { return slices.Clone(s.pricing) }
func (s *Showtime) Total() int           { return s.total }
func (s *Showtime) Available() int       { return s.available }
func (s *Showtime) Holds() []SeatHold    { return slices.Clone(s.holds) }
func (s *Showtime) IsActive() bool       { return s.isActive }

// CombineDateAndTime reads a malformed hhmm as midnight.
func CombineDateAndTime(date time.Time, hhmm string, loc *time.Location) time.Time {
	hour, minute := clockTime(hhmm)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
}

// ValidateStartTime accepts a 24-hour HH:MM string.
func ValidateStartTime(hhmm string) error {
	if !startTimePattern.MatchString(hhmm) {
		return errs.Wrapf(ErrInvalidShowtime, "start time %q", hhmm)
	}
	return nil
}

func clockTime(hhmm string) (hour, minute int) {
	if ValidateStartTime(hhmm) != nil {
		return 0, 0
	}
	hour, _ = strconv.Atoi(hhmm[:2])
	minute, _ = strconv.Atoi(hhmm[3:])
	return hour, minute
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
