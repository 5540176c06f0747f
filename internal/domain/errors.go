package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrMovieNotFound        = errors.New("movie not found or inactive")
	ErrAuditoriumNotFound   = errors.New("auditorium not found")
	ErrScreeningNotFound    = errors.New("screening not found or no longer available")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrInvalidScreeningTime = errors.New("screening start time must be in the future")
	ErrSchedulingConflict   = errors.New("screening time overlaps with an existing screening in this auditorium")
	ErrScreeningNotEditable = errors.New("screening has already started or is inactive")
	ErrScreeningHasBookings = errors.New("screening has active bookings")
	ErrInsufficientSeats    = errors.New("not enough seats available")
	ErrSeatUnavailable      = errors.New("seat(s) are already reserved")
	ErrBookingAlreadyPaid   = errors.New("booking already paid")
	ErrBookingCancelled     = errors.New("booking is cancelled")
	ErrInvalidBookingState  = errors.New("operation not allowed for current booking status")
	ErrTicketUsed           = errors.New("ticket has already been used")
	ErrEditConflict         = errors.New("edit conflict")
)

// SeatUnavailableError wraps ErrSeatUnavailable with the first conflicting seat,
// so clients can tell the user which seat to reselect.
type SeatUnavailableError struct {
	SeatID uuid.UUID
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is not available", e.SeatID)
}

func (e *SeatUnavailableError) Unwrap() error {
	return ErrSeatUnavailable
}
