package response

import (
	"cinebook/internal/usecase/commands"
	"cinebook/internal/usecase/queries"
)

type SeatResponse struct {
	SeatID   string `json:"seat_id"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
}

type PaymentResponse struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

type CancellationResponse struct {
	CancelledAt  int64   `json:"cancelled_at"`
	RefundAmount float64 `json:"refund_amount"`
	RefundStatus string  `json:"refund_status"`
}

type BookingResponse struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	UserID       string                `json:"user_id"`
	MovieID      string                `json:"movie_id"`
	TheatreID    string                `json:"theatre_id"`
	ShowtimeID   string                `json:"showtime_id"`
	ShowsAt      int64                 `json:"shows_at"`
	Seats        []SeatResponse        `json:"seats"`
	TotalAmount  int64                 `json:"total_amount"`
	Status       string                `json:"status"`
	ExpiresAt    int64                 `json:"expires_at"`
	Payment      *PaymentResponse      `json:"payment,omitempty"`
	Ticket       *string               `json:"ticket,omitempty"`
	Cancellation *CancellationResponse `json:"cancellation,omitempty"`
	CreatedAt    int64                 `json:"created_at"`
	UpdatedAt    int64                 `json:"updated_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	res := &BookingResponse{
		ID:          v.ID.String(),
		Code:        v.Code,
		UserID:      v.UserID.String(),
		MovieID:     v.MovieID.String(),
		TheatreID:   v.TheatreID.String(),
		ShowtimeID:  v.ShowtimeID.String(),
		ShowsAt:     v.ShowsAt.Unix(),
		Seats:       make([]SeatResponse, len(v.Seats)),
		TotalAmount: v.TotalAmount,
		Status:      v.Status,
		ExpiresAt:   v.ExpiresAt.Unix(),
		Ticket:      v.Ticket,
		CreatedAt:   v.CreatedAt.Unix(),
		UpdatedAt:   v.UpdatedAt.Unix(),
	}
	for i, s := range v.Seats {
		res.Seats[i] = SeatResponse(s)
	}
	if v.Payment != nil {
		res.Payment = &PaymentResponse{OrderID: v.Payment.OrderID, PaymentID: v.Payment.PaymentID}
	}
	if c := v.Cancellation; c != nil {
		res.Cancellation = &CancellationResponse{
			CancelledAt:  c.CancelledAt.Unix(),
			RefundAmount: c.RefundAmount.InexactFloat64(),
			RefundStatus: c.RefundStatus,
		}
	}
	return res
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	res := make([]*BookingResponse, len(views))
	for i, v := range views {
		res[i] = FromBookingView(v)
	}
	return res
}

type CancelBookingResponse struct {
	Booking      *BookingResponse `json:"booking"`
	RefundAmount float64          `json:"refund_amount"`
}

func FromCancelResult(r *commands.CancelBookingResult) *CancelBookingResponse {
	return &CancelBookingResponse{
		Booking:      FromBookingView(r.Booking),
		RefundAmount: r.RefundAmount.InexactFloat64(),
	}
}

type RefundResponse struct {
	Booking  *BookingResponse `json:"booking"`
	RefundID string           `json:"refund_id"`
	Amount   float64          `json:"amount"`
}

func FromRefundResult(r *commands.RefundResult) *RefundResponse {
	return &RefundResponse{
		Booking:  FromBookingView(r.Booking),
		RefundID: r.RefundID,
		Amount:   r.Amount.InexactFloat64(),
	}
}

type PaymentRecordResponse struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	OrderID    string  `json:"order_id"`
	PaymentID  *string `json:"payment_id,omitempty"`
	Amount     int64   `json:"amount"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
	RefundID   *string `json:"refund_id,omitempty"`
	RefundedAt *int64  `json:"refunded_at,omitempty"`
	CreatedAt  int64   `json:"created_at"`
	UpdatedAt  int64   `json:"updated_at"`
}

func FromPaymentRecordView(v *queries.PaymentRecordView) *PaymentRecordResponse {
	res := &PaymentRecordResponse{
		ID:        v.ID.String(),
		BookingID: v.BookingID.String(),
		OrderID:   v.OrderID,
		PaymentID: v.PaymentID,
		Amount:    v.Amount,
		Currency:  v.Currency,
		Status:    v.Status,
		RefundID:  v.RefundID,
		CreatedAt: v.CreatedAt.Unix(),
		UpdatedAt: v.UpdatedAt.Unix(),
	}
	if v.RefundedAt != nil {
		at := v.RefundedAt.Unix()
		res.RefundedAt = &at
	}
	return res
}

func FromPaymentRecordViews(views []*queries.PaymentRecordView) []*PaymentRecordResponse {
	res := make([]*PaymentRecordResponse, len(views))
	for i, v := range views {
		res[i] = FromPaymentRecordView(v)
	}
	return res
}

type PaymentOrderResponse struct {
	BookingID string `json:"booking_id"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	KeyID     string `json:"key_id"`
}

func FromPaymentOrder(r *commands.PaymentOrderResult) *PaymentOrderResponse {
	return &PaymentOrderResponse{
		BookingID: r.BookingID.String(),
		OrderID:   r.OrderID,
		Amount:    r.Amount,
		Currency:  r.Currency,
		KeyID:     r.KeyID,
	}
}

type SeatStatusResponse struct {
	SeatID string `json:"seat_id"`
	Status string `json:"status"`
}

type AvailabilityResponse struct {
	ShowtimeID    string               `json:"showtime_id"`
	Total         int                  `json:"total"`
	Available     int                  `json:"available"`
	Booked        int                  `json:"booked"`
	BookedSeatIDs []string             `json:"booked_seat_ids"`
	Holds         []SeatStatusResponse `json:"holds"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	res := &AvailabilityResponse{
		ShowtimeID:    v.ShowtimeID.String(),
		Total:         v.Total,
		Available:     v.Available,
		Booked:        v.Booked,
		BookedSeatIDs: v.BookedSeatIDs,
		Holds:         make([]SeatStatusResponse, len(v.Holds)),
	}
	for i, h := range v.Holds {
		res.Holds[i] = SeatStatusResponse(h)
	}
	return res
}
