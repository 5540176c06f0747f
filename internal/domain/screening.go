package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Screening struct {
	ID             uuid.UUID
	MovieID        uuid.UUID
	AuditoriumID   uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	BasePrice      decimal.Decimal
	AvailableSeats int
	IsActive       bool
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time

	MovieTitle     string
	AuditoriumName string
}

// Overlaps reports whether the [start, end) interval intersects this screening's
// interval. Back-to-back screenings (end == other start) do not overlap.
func (s *Screening) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}

func (s *Screening) Started(now time.Time) bool {
	return !s.StartTime.After(now)
}

// ScreeningUpdate holds the optional fields of a partial update. Nil means
// keep the current value.
type ScreeningUpdate struct {
	MovieID      *uuid.UUID
	AuditoriumID *uuid.UUID
	StartTime    *time.Time
	BasePrice    *decimal.Decimal
}

func (u ScreeningUpdate) Empty() bool {
	return u.MovieID == nil && u.AuditoriumID == nil && u.StartTime == nil && u.BasePrice == nil
}

func (u ScreeningUpdate) MovesSchedule() bool {
	return u.MovieID != nil || u.AuditoriumID != nil || u.StartTime != nil
}

type ScreeningRepository interface {
	// Create persists the screening after verifying, inside one transaction,
	// that no active screening in the same auditorium overlaps its interval.
	Create(ctx context.Context, screening *Screening) error
	// Update re-runs the overlap check against the (possibly new) auditorium and
	// interval, excluding the screening's own id from the conflict scan.
	Update(ctx context.Context, screening *Screening) error
	// Deactivate soft-deletes the screening. It fails with
	// ErrScreeningHasBookings while any PENDING or CONFIRMED booking exists.
	Deactivate(ctx context.Context, id uuid.UUID) error
	GetById(ctx context.Context, id uuid.UUID) (*Screening, error)
	ListUpcomingByMovie(ctx context.Context, movieID uuid.UUID, now time.Time) ([]*Screening, error)
}
