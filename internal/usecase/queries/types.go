package queries

import (
	"time"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingView is the read shape of a booking, shared by commands and queries.
type BookingView struct {
	ID           uuid.UUID         `json:"id"`
	Code         string            `json:"code"`
	UserID       uuid.UUID         `json:"user_id"`
	MovieID      uuid.UUID         `json:"movie_id"`
	TheatreID    uuid.UUID         `json:"theatre_id"`
	ShowtimeID   uuid.UUID         `json:"showtime_id"`
	ShowsAt      time.Time         `json:"shows_at"`
	Seats        []SeatView        `json:"seats"`
	TotalAmount  int64             `json:"total_amount"`
	Status       string            `json:"status"`
	ExpiresAt    time.Time         `json:"expires_at"`
	Payment      *PaymentView      `json:"payment,omitempty"`
	Ticket       *string           `json:"ticket,omitempty"`
	Cancellation *CancellationView `json:"cancellation,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type SeatView struct {
	SeatID   string `json:"seat_id"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
}

type PaymentView struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

type CancellationView struct {
	CancelledAt  time.Time       `json:"cancelled_at"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	RefundStatus string          `json:"refund_status"`
}

// PaymentRecordView never carries the gateway signature.
type PaymentRecordView struct {
	ID         uuid.UUID  `json:"id"`
	BookingID  uuid.UUID  `json:"booking_id"`
	UserID     uuid.UUID  `json:"user_id"`
	OrderID    string     `json:"order_id"`
	PaymentID  *string    `json:"payment_id,omitempty"`
	Amount     int64      `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	RefundID   *string    `json:"refund_id,omitempty"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// AvailabilityView deliberately omits which booking holds a seat.
type AvailabilityView struct {
	ShowtimeID    uuid.UUID        `json:"showtime_id"`
	Total         int              `json:"total"`
	Available     int              `json:"available"`
	Booked        int              `json:"booked"`
	BookedSeatIDs []string         `json:"booked_seat_ids"`
	Holds         []SeatStatusView `json:"holds"`
}

type SeatStatusView struct {
	SeatID string `json:"seat_id"`
	Status string `json:"status"`
}

type BookingFilters struct {
	Status *booking.Status
}

func NewBookingView(b *booking.Booking) *BookingView {
	seats := b.Seats()
	v := &BookingView{
		ID:          b.ID(),
		Code:        b.Code().String(),
		UserID:      b.UserID(),
		MovieID:     b.MovieID(),
		TheatreID:   b.TheatreID(),
		ShowtimeID:  b.ShowtimeID(),
		ShowsAt:     b.ShowsAt(),
		Seats:       make([]SeatView, len(seats)),
		TotalAmount: b.TotalAmount(),
		Status:      b.Status().String(),
		ExpiresAt:   b.ExpiresAt(),
		Ticket:      b.Ticket(),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
	for i, s := range seats {
		v.Seats[i] = SeatView{SeatID: s.SeatID.String(), Category: s.Category.String(), Price: s.Price}
	}
	if p := b.Payment(); p != nil {
		v.Payment = &PaymentView{OrderID: p.OrderID, PaymentID: p.PaymentID}
	}
	if c := b.Cancellation(); c != nil {
		v.Cancellation = &CancellationView{
			CancelledAt:  c.CancelledAt,
			RefundAmount: c.RefundAmount,
			RefundStatus: string(c.RefundStatus),
		}
	}
	return v
}

func NewPaymentRecordView(p *shared.PaymentRecord) *PaymentRecordView {
	return &PaymentRecordView{
		ID:         p.ID,
		BookingID:  p.BookingID,
		UserID:     p.UserID,
		OrderID:    p.OrderID,
		PaymentID:  p.PaymentID,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Status:     string(p.Status),
		RefundID:   p.RefundID,
		RefundedAt: p.RefundedAt,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func NewAvailabilityView(st *showtime.Showtime) *AvailabilityView {
	a := st.Availability()
	v := &AvailabilityView{
		ShowtimeID:    st.ID(),
		Total:         a.Total,
		Available:     a.Available,
		Booked:        a.Booked,
		BookedSeatIDs: make([]string, len(a.BookedSeatIDs)),
		Holds:         []SeatStatusView{},
	}
	for i, id := range a.BookedSeatIDs {
		v.BookedSeatIDs[i] = id.String()
	}
	for _, h := range st.Holds() {
		if h.Status.Holds() {
			v.Holds = append(v.Holds, SeatStatusView{SeatID: h.SeatID.String(), Status: string(h.Status)})
		}
	}
	return v
}
