package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Movie struct {
	ID              uuid.UUID
	Title           string
	Synopsis        string
	DurationMinutes int
	Genre           string
	Language        string
	Rating          string
	PosterUrl       string
	ReleaseDate     time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration is the movie's running time, used to derive screening end times.
func (m *Movie) Duration() time.Duration {
	return time.Duration(m.DurationMinutes) * time.Minute
}

type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	GetById(ctx context.Context, id uuid.UUID) (*Movie, error)
	GetAll(ctx context.Context) ([]*Movie, error)
}
