package domain

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SeatClass string

const (
	SeatClassRegular SeatClass = "REGULAR"
	SeatClassPremium SeatClass = "PREMIUM"
	SeatClassVIP     SeatClass = "VIP"
)

// Auditorium owns a fixed seat layout. Seat count always equals capacity and
// (row, number) pairs are unique within an auditorium, both enforced by the schema.
type Auditorium struct {
	ID           uuid.UUID
	Name         string
	ScreenNumber int
	Capacity     int
	RowCount     int
	ColumnCount  int
}

// Seat carries no availability of its own. Availability is per screening,
// derived from the seat reservation rows.
type Seat struct {
	ID           uuid.UUID
	AuditoriumID uuid.UUID
	RowLabel     string
	SeatNumber   int
	Class        SeatClass
	ExtraPrice   decimal.Decimal
}

func (s Seat) Label() string {
	return s.RowLabel + strconv.Itoa(s.SeatNumber)
}

type AuditoriumRepository interface {
	GetById(ctx context.Context, id uuid.UUID) (*Auditorium, error)
	// GetLayout returns every seat of the auditorium ordered by row label then
	// seat number, so callers can group rows in a single pass.
	GetLayout(ctx context.Context, auditoriumID uuid.UUID) ([]Seat, error)
}
