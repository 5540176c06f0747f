package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	// ReservationLocked is a time-bounded hold pending payment. A LOCKED row
	// whose LockedUntil has elapsed counts as released everywhere.
	ReservationLocked ReservationStatus = "LOCKED"
	// ReservationBooked is a confirmed, durable reservation with no expiry.
	ReservationBooked ReservationStatus = "BOOKED"
)

// SeatReservation binds a physical seat to a screening. The existence of a
// non-expired row is what makes the seat unavailable for that screening;
// absence means available. BookingID is nil for inventory-level holds taken
// outside a booking.
type SeatReservation struct {
	ScreeningID uuid.UUID
	SeatID      uuid.UUID
	BookingID   *uuid.UUID
	Status      ReservationStatus
	Price       decimal.Decimal
	LockedAt    time.Time
	LockedUntil *time.Time
}

func (r SeatReservation) Expired(now time.Time) bool {
	return r.Status == ReservationLocked && r.LockedUntil != nil && !r.LockedUntil.After(now)
}

type ReservationRepository interface {
	// Reserve creates LOCKED rows for every seat or none at all. Any seat with a
	// live reservation for the screening fails the whole call with a
	// SeatUnavailableError naming the first conflicting seat. Expired rows on
	// the requested seats are evicted on the way in.
	Reserve(ctx context.Context, screeningID uuid.UUID, seatIDs []uuid.UUID, holdFor time.Duration) error
	// Release deletes the reservation rows. Idempotent, absent rows are fine.
	Release(ctx context.Context, screeningID uuid.UUID, seatIDs []uuid.UUID) error
	// GetActiveByScreening returns the live (non-expired) reservations.
	GetActiveByScreening(ctx context.Context, screeningID uuid.UUID) ([]SeatReservation, error)
	// DeleteExpired physically removes expired LOCKED rows that belong to no
	// booking. Purely hygienic: every read already treats expired rows as
	// absent. Expired rows owned by a booking are reclaimed through
	// BookingRepository.CancelExpired so the seat counter stays consistent.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
