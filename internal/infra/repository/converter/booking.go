package converter

import (
	"encoding/json"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	sqlc "cinebook/internal/infra/sqlc/generated"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// seatRecord is the jsonb shape of bookings.seats.
type seatRecord struct {
	SeatID   string `json:"seat_id"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
}

func BookingToInfra(b *booking.Booking) (sqlc.CreateBookingParams, error) {
	seats, err := marshalSeats(b.Seats())
	if err != nil {
		return sqlc.CreateBookingParams{}, err
	}
	orderID, paymentID := paymentRefToInfra(b.Payment())
	cancelledAt, refundAmount, refundStatus := cancellationToInfra(b.Cancellation())

	return sqlc.CreateBookingParams{
		ID:             b.ID(),
		Code:           b.Code().String(),
		UserID:         b.UserID(),
		MovieID:        b.MovieID(),
		TheatreID:      b.TheatreID(),
		ShowtimeID:     b.ShowtimeID(),
		ShowsAt:        pgconv.TimeToPgtype(b.ShowsAt()),
		Seats:          seats,
		TotalAmount:    b.TotalAmount(),
		Status:         b.Status().String(),
		ExpiresAt:      pgconv.TimeToPgtype(b.ExpiresAt()),
		PaymentOrderID: orderID,
		PaymentID:      paymentID,
		Ticket:         pgconv.StringPtrToPgtype(b.Ticket()),
		CancelledAt:    cancelledAt,
		RefundAmount:   refundAmount,
		RefundStatus:   refundStatus,
		CreatedAt:      pgconv.TimeToPgtype(b.CreatedAt()),
		UpdatedAt:      pgconv.TimeToPgtype(b.UpdatedAt()),
	}, nil
}

// BookingUpdateToInfra covers the columns a booking may change after creation.
func BookingUpdateToInfra(b *booking.Booking) sqlc.UpdateBookingParams {
	orderID, paymentID := paymentRefToInfra(b.Payment())
	cancelledAt, refundAmount, refundStatus := cancellationToInfra(b.Cancellation())

	return sqlc.UpdateBookingParams{
		ID:             b.ID(),
		Status:         b.Status().String(),
		PaymentOrderID: orderID,
		PaymentID:      paymentID,
		Ticket:         pgconv.StringPtrToPgtype(b.Ticket()),
		CancelledAt:    cancelledAt,
		RefundAmount:   refundAmount,
		RefundStatus:   refundStatus,
		UpdatedAt:      pgconv.TimeToPgtype(b.UpdatedAt()),
	}
}

func BookingFromInfra(row sqlc.Bookings) (*booking.Booking, error) {
	seats, err := unmarshalSeats(row.Seats)
	if err != nil {
		return nil, err
	}

	var payment *booking.PaymentRef
	if row.PaymentOrderID.Valid || row.PaymentID.Valid {
		payment = &booking.PaymentRef{OrderID: row.PaymentOrderID.String, PaymentID: row.PaymentID.String}
	}

	var cancellation *booking.Cancellation
	if cancelledAt := pgconv.TimePtrFromPgtype(row.CancelledAt); cancelledAt != nil {
		refund, err := pgconv.DecimalFromNumeric(row.RefundAmount)
		if err != nil {
			return nil, errs.Wrap(err, "refund amount")
		}
		cancellation = &booking.Cancellation{
			CancelledAt:  *cancelledAt,
			RefundAmount: refund,
			RefundStatus: booking.RefundStatus(row.RefundStatus.String),
		}
	}

	return booking.ReconstructBooking(
		row.ID,
		booking.Code(row.Code),
		row.UserID, row.MovieID, row.TheatreID, row.ShowtimeID,
		pgconv.TimeFromPgtype(row.ShowsAt),
		seats,
		row.TotalAmount,
		booking.Status(row.Status),
		pgconv.TimeFromPgtype(row.ExpiresAt),
		payment,
		pgconv.StringPtrFromPgtype(row.Ticket),
		cancellation,
		pgconv.TimeFromPgtype(row.CreatedAt), pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func paymentRefToInfra(p *booking.PaymentRef) (pgtype.Text, pgtype.Text) {
	if p == nil {
		return pgtype.Text{}, pgtype.Text{}
	}
	return pgconv.StringToPgtype(p.OrderID), pgconv.StringToPgtype(p.PaymentID)
}

func cancellationToInfra(c *booking.Cancellation) (pgtype.Timestamptz, pgtype.Numeric, pgtype.Text) {
	if c == nil {
		return pgtype.Timestamptz{}, pgtype.Numeric{}, pgtype.Text{}
	}
	return pgconv.TimeToPgtype(c.CancelledAt),
		pgconv.DecimalToNumeric(c.RefundAmount),
		pgconv.StringToPgtype(string(c.RefundStatus))
}

func marshalSeats(seats []booking.Seat) ([]byte, error) {
	records := make([]seatRecord, len(seats))
	for i, s := range seats {
		records[i] = seatRecord{SeatID: s.SeatID.String(), Category: s.Category.String(), Price: s.Price}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, errs.Wrap(err, "encode booking seats")
	}
	return data, nil
}

func unmarshalSeats(data []byte) ([]booking.Seat, error) {
	var records []seatRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errs.Wrap(err, "decode booking seats")
	}
	seats := make([]booking.Seat, len(records))
	for i, rec := range records {
		seats[i] = booking.Seat{
			SeatID:   showtime.SeatID(rec.SeatID),
			Category: showtime.Category(rec.Category),
			Price:    rec.Price,
		}
	}
	return seats, nil
}
