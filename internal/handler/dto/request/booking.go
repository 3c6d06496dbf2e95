package request

import (
	"strings"

	"cinebook/internal/usecase/commands"

	"github.com/google/uuid"
)

type SeatRequest struct {
	SeatID   string `json:"seat_id" binding:"required,max=8"`
	Category string `json:"category" binding:"required"`
}

type CreateBookingRequest struct {
	ShowtimeID uuid.UUID     `json:"showtime_id" binding:"required"`
	Seats      []SeatRequest `json:"seats" binding:"required,min=1,dive"`
}

func (r CreateBookingRequest) ToInput() commands.CreateBookingInput {
	seats := make([]commands.SeatSelection, len(r.Seats))
	for i, s := range r.Seats {
		seats[i] = commands.SeatSelection{
			SeatID:   strings.ToUpper(strings.TrimSpace(s.SeatID)),
			Category: strings.TrimSpace(s.Category),
		}
	}
	return commands.CreateBookingInput{ShowtimeID: r.ShowtimeID, Seats: seats}
}

type ConfirmBookingRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (r ConfirmBookingRequest) ToPaymentReference() commands.PaymentReference {
	return commands.PaymentReference{
		OrderID:   strings.TrimSpace(r.OrderID),
		PaymentID: strings.TrimSpace(r.PaymentID),
		Signature: strings.TrimSpace(r.Signature),
	}
}
