package queries

import "cinebook/internal/pkg/errs"

var (
	ErrBookingNotFound  = errs.New("booking not found")
	ErrShowtimeNotFound = errs.New("showtime not found")
	ErrInvalidCursor    = errs.New("invalid cursor")
	ErrInvalidStatus    = errs.New("invalid booking status filter")
	ErrPaymentNotFound  = errs.New("payment not found")
)
