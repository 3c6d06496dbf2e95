//go:build unit || e2e

package builder

import (
	"time"

	reqdto "cinebook/internal/handler/dto/request"
	"cinebook/internal/usecase/commands"
	"cinebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID          uuid.UUID
	Code        string
	UserID      uuid.UUID
	ShowtimeID  uuid.UUID
	ShowsAt     time.Time
	Seats       []queries.SeatView
	Status      string
	PaymentID   string
	OrderID     string
	CreatedAt   time.Time
	HoldMinutes int
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().Truncate(time.Second)
	return &BookingBuilder{
		ID:         uuid.New(),
		Code:       "BK7QXZKD2M",
		UserID:     uuid.New(),
		ShowtimeID: uuid.New(),
		ShowsAt:    now.Add(6 * time.Hour),
		Seats: []queries.SeatView{
			{SeatID: "A1", Category: "Gold", Price: 200},
			{SeatID: "A2", Category: "Gold", Price: 200},
		},
		Status:      "pending",
		CreatedAt:   now,
		HoldMinutes: 15,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	var total int64
	for _, s := range b.Seats {
		total += s.Price
	}
	v := &queries.BookingView{
		ID:          b.ID,
		Code:        b.Code,
		UserID:      b.UserID,
		MovieID:     uuid.New(),
		TheatreID:   uuid.New(),
		ShowtimeID:  b.ShowtimeID,
		ShowsAt:     b.ShowsAt,
		Seats:       append([]queries.SeatView(nil), b.Seats...),
		TotalAmount: total,
		Status:      b.Status,
		ExpiresAt:   b.CreatedAt.Add(time.Duration(b.HoldMinutes) * time.Minute),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.CreatedAt,
	}
	if b.PaymentID != "" {
		v.Payment = &queries.PaymentView{OrderID: b.OrderID, PaymentID: b.PaymentID}
	}
	return v
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	seats := make([]reqdto.SeatRequest, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = reqdto.SeatRequest{SeatID: s.SeatID, Category: s.Category}
	}
	return reqdto.CreateBookingRequest{ShowtimeID: b.ShowtimeID, Seats: seats}
}

func (b *BookingBuilder) BuildCreateInput() commands.CreateBookingInput {
	return b.BuildCreateRequestDTO().ToInput()
}
