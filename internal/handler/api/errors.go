package api

import (
	"net/http"

	"cinebook/internal/domain/booking"
	"cinebook/internal/domain/showtime"
	"cinebook/internal/handler/httperr"
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/commands"
	"cinebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var (
	errUnauthenticated   = errs.New("unauthenticated request")
	errInvalidIdempotKey = errs.New("invalid idempotency key format")
)

// Order matters: ErrHoldExpired and ErrRefundNotDue wrap ErrInvalidState
// and must match first.
var bookingErrorRules = []httperr.Rule{
	{Target: errs.ErrForbidden, Status: http.StatusForbidden, Message: "Access denied"},
	{Target: queries.ErrBookingNotFound, Status: http.StatusNotFound, Message: "Booking not found"},
	{Target: queries.ErrShowtimeNotFound, Status: http.StatusNotFound, Message: "Showtime not found"},
	{Target: queries.ErrPaymentNotFound, Status: http.StatusNotFound, Message: "Payment not found"},

	{Target: booking.ErrNoSeats, Status: http.StatusBadRequest, Message: "At least one seat is required"},
	{Target: booking.ErrTooManySeats, Status: http.StatusBadRequest, Message: "Too many seats in one booking"},
	{Target: booking.ErrDuplicateSeat, Status: http.StatusBadRequest, Message: "Seat requested twice"},
	{Target: booking.ErrMissingPaymentID, Status: http.StatusBadRequest, Message: "Payment reference required"},
	{Target: showtime.ErrInvalidSeatID, Status: http.StatusBadRequest, Message: "Invalid seat id"},
	{Target: showtime.ErrCategoryNotFound, Status: http.StatusBadRequest, Message: "Seat category not offered for this showtime"},
	{Target: queries.ErrInvalidStatus, Status: http.StatusBadRequest, Message: "Invalid status filter"},
	{Target: queries.ErrInvalidCursor, Status: http.StatusBadRequest, Message: "Invalid cursor"},
	{Target: commands.ErrInvalidPaymentSignature, Status: http.StatusBadRequest, Message: "Invalid payment signature"},

	{Target: showtime.ErrSeatUnavailable, Status: http.StatusConflict, Message: "Seat is not available", Detail: seatDetail},
	{Target: booking.ErrHoldExpired, Status: http.StatusConflict, Message: "Booking hold has expired"},
	{Target: booking.ErrRefundNotDue, Status: http.StatusConflict, Message: "No refund is due for this booking"},
	{Target: booking.ErrInvalidState, Status: http.StatusConflict, Message: "Booking is not in a valid state for this action"},
	{Target: booking.ErrTooLateToCancel, Status: http.StatusConflict, Message: "Too late to cancel this booking"},
	{Target: showtime.ErrHoldNotFound, Status: http.StatusConflict, Message: "Seat hold no longer exists"},
	{Target: showtime.ErrInventoryExceeded, Status: http.StatusConflict, Message: "No seats left for this showtime"},
	{Target: commands.ErrShowtimeInactive, Status: http.StatusConflict, Message: "Showtime is not open for booking"},
	{Target: commands.ErrPaymentOrderMismatch, Status: http.StatusConflict, Message: "Payment order does not match booking"},
	{Target: commands.ErrPaymentOrderExists, Status: http.StatusConflict, Message: "Payment already completed"},
	{Target: errs.ErrIdempotencyInProgress, Status: http.StatusConflict, Message: "Booking request is currently being processed"},

	{Target: errs.ErrIdempotencyKeyReused, Status: http.StatusUnprocessableEntity, Message: "Idempotency key reused with a different request"},
	{Target: commands.ErrPaymentGateway, Status: http.StatusBadGateway, Message: "Payment provider unavailable"},
}

func seatDetail(err error) any {
	var seatErr *showtime.SeatUnavailableError
	if errs.As(err, &seatErr) {
		return gin.H{"seat_id": seatErr.SeatID.String()}
	}
	return nil
}

func abortWithUseCaseError(c *gin.Context, err error) {
	httperr.AbortWithRules(c, err, bookingErrorRules)
}
