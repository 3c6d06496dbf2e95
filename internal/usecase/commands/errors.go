package commands

import (
	"cinebook/internal/pkg/errs"
	"cinebook/internal/usecase/queries"
)

var (
	ErrShowtimeNotFound        = queries.ErrShowtimeNotFound
	ErrBookingNotFound         = queries.ErrBookingNotFound
	ErrUnauthorized            = errs.ErrForbidden
	ErrShowtimeInactive        = errs.New("showtime is not open for booking")
	ErrPaymentGateway          = errs.New("payment provider failure")
	ErrInvalidPaymentSignature = errs.New("invalid payment signature")
	ErrPaymentOrderMismatch    = errs.New("payment order does not belong to booking")
	ErrPaymentOrderExists      = errs.New("payment order already completed")
	ErrPaymentNotFound         = queries.ErrPaymentNotFound
)
