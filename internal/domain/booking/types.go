package booking

import (
	"strconv"
	"strings"
	"time"

	"cinebook/internal/domain/showtime"

	"github.com/lithammer/shortuuid/v3"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusExpired},
	StatusConfirmed: {StatusCancelled},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string {
	return string(s)
}

type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
	RefundFailed    RefundStatus = "failed"
)

func (s RefundStatus) IsValid() bool {
	return s == RefundPending || s == RefundProcessed || s == RefundFailed
}

// Seat is a priced snapshot taken at booking time.
type Seat struct {
	SeatID   showtime.SeatID
	Category showtime.Category
	Price    int64
}

// RefundAmount is in rupees and may carry paise.
type Cancellation struct {
	CancelledAt  time.Time
	RefundAmount decimal.Decimal
	RefundStatus RefundStatus
}

type PaymentRef struct {
	OrderID   string
	PaymentID string
}

// Code is the human readable booking reference printed on tickets.
type Code string

const codePrefix = "BK"

func NewCode(now time.Time) Code {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := shortuuid.New()[:5]
	return Code(strings.ToUpper(codePrefix + ts + suffix))
}

func (c Code) String() string {
	return string(c)
}
