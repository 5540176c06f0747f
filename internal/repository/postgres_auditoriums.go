package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

type PostgresAuditoriumRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAuditoriumRepository(db *pgxpool.Pool) *PostgresAuditoriumRepository {
	return &PostgresAuditoriumRepository{
		db: db,
	}
}

func (p *PostgresAuditoriumRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Auditorium, error) {
	query := `
		SELECT id, name, screen_number, capacity, row_count, column_count
		FROM auditoriums
		WHERE id = $1
	`

	var auditorium domain.Auditorium

	err := p.db.QueryRow(ctx, query, id).Scan(
		&auditorium.ID,
		&auditorium.Name,
		&auditorium.ScreenNumber,
		&auditorium.Capacity,
		&auditorium.RowCount,
		&auditorium.ColumnCount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuditoriumNotFound
		}

		return nil, err
	}

	return &auditorium, nil
}

func (p *PostgresAuditoriumRepository) GetLayout(ctx context.Context, auditoriumID uuid.UUID) ([]domain.Seat, error) {
	query := `
		SELECT id, auditorium_id, row_label, seat_number, class, extra_price
		FROM seats
		WHERE auditorium_id = $1
		ORDER BY row_label, seat_number
	`

	rows, err := p.db.Query(ctx, query, auditoriumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seat.ID,
			&seat.AuditoriumID,
			&seat.RowLabel,
			&seat.SeatNumber,
			&seat.Class,
			&seat.ExtraPrice,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(seats) == 0 {
		return nil, domain.ErrAuditoriumNotFound
	}

	return seats, nil
}
