package domain

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	ScreeningID   uuid.UUID
	BookingCode   string
	TotalAmount   decimal.Decimal
	NumberOfSeats int
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Seats []BookedSeat
}

type BookedSeat struct {
	SeatID     uuid.UUID
	RowLabel   string
	SeatNumber int
	Class      SeatClass
	Price      decimal.Decimal
}

func (b *Booking) SeatLabels() []string {
	labels := make([]string, len(b.Seats))
	for i, s := range b.Seats {
		labels[i] = s.RowLabel + strconv.Itoa(s.SeatNumber)
	}

	return labels
}

// BookingSummary is the flattened list-view row joined with screening,
// movie and auditorium data.
type BookingSummary struct {
	ID             uuid.UUID
	BookingCode    string
	Status         BookingStatus
	TotalAmount    decimal.Decimal
	NumberOfSeats  int
	MovieTitle     string
	AuditoriumName string
	ScreeningStart time.Time
	CreatedAt      time.Time
}

var bookingSeq atomic.Uint64

// NewBookingCode builds the human-facing booking code: "BK" followed by the
// millisecond timestamp, a monotonic sequence and a random suffix. The sequence
// keeps codes generated within the same millisecond distinct; the database
// still enforces uniqueness outright.
func NewBookingCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken
		panic(err)
	}

	seq := bookingSeq.Add(1) % 100000

	return fmt.Sprintf("BK%d%05d%04d", time.Now().UnixMilli(), seq, n.Int64())
}

type BookingRepository interface {
	// Create runs the whole reservation contract in one transaction: verify the
	// screening is active, reserve every requested seat (all or nothing), price
	// the seats, persist the PENDING booking and decrement the screening's
	// available-seat counter. Any failure rolls the whole call back.
	Create(ctx context.Context, booking *Booking, seatIDs []uuid.UUID, holdFor time.Duration) error
	// Confirm moves PENDING to CONFIRMED and promotes the booking's seat
	// reservations from LOCKED to BOOKED. Confirming a CONFIRMED booking is a
	// no-op; a CANCELLED one fails with ErrInvalidBookingState.
	Confirm(ctx context.Context, id uuid.UUID) error
	// Cancel releases the booking's reservations, restores the screening
	// counter and sets the status to CANCELLED. Idempotent; cancelling a
	// CONFIRMED booking is allowed and still restores inventory.
	Cancel(ctx context.Context, id uuid.UUID) error
	// CancelExpired cancels every PENDING booking whose seat hold has elapsed,
	// releasing its seats and restoring counters. Returns how many were
	// reclaimed.
	CancelExpired(ctx context.Context, now time.Time) (int64, error)
	GetById(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]BookingSummary, error)
	ListAll(ctx context.Context) ([]BookingSummary, error)
}
