package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

type PostgresScreeningRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningRepository(db *pgxpool.Pool) *PostgresScreeningRepository {
	return &PostgresScreeningRepository{
		db: db,
	}
}

func (p *PostgresScreeningRepository) Create(ctx context.Context, screening *domain.Screening) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		conflict, err := hasOverlap(ctx, tx, screening.AuditoriumID, screening.StartTime, screening.EndTime, uuid.Nil)
		if err != nil {
			return err
		}

		if conflict {
			return domain.ErrSchedulingConflict
		}

		query := `
			INSERT INTO screenings (id, movie_id, auditorium_id, start_time, end_time, base_price, available_seats, is_active, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
			RETURNING created_at, updated_at
		`

		screening.ID = uuid.New()
		screening.IsActive = true

		err = tx.QueryRow(
			ctx,
			query,
			screening.ID,
			screening.MovieID,
			screening.AuditoriumID,
			screening.StartTime,
			screening.EndTime,
			screening.BasePrice,
			screening.AvailableSeats,
			screening.CreatedBy,
		).Scan(&screening.CreatedAt, &screening.UpdatedAt)

		return mapScheduleError(err)
	})
}

func (p *PostgresScreeningRepository) Update(ctx context.Context, screening *domain.Screening) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var storedAuditoriumId uuid.UUID

		query := `
			SELECT auditorium_id
			FROM screenings
			WHERE id = $1 AND is_active = TRUE
			FOR UPDATE
		`

		err := tx.QueryRow(ctx, query, screening.ID).Scan(&storedAuditoriumId)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrScreeningNotFound
			}

			return err
		}

		conflict, err := hasOverlap(ctx, tx, screening.AuditoriumID, screening.StartTime, screening.EndTime, screening.ID)
		if err != nil {
			return err
		}

		if conflict {
			return domain.ErrSchedulingConflict
		}

		// the counter belongs to the booking flow: a reschedule never touches
		// it, and a move to another auditorium resets it only after every
		// reservation row has been reclaimed inside this transaction
		if storedAuditoriumId != screening.AuditoriumID {
			err = reassignAuditorium(ctx, tx, screening)
			if err != nil {
				return err
			}
		}

		query = `
			UPDATE screenings
			SET movie_id = $2, auditorium_id = $3, start_time = $4, end_time = $5, base_price = $6, updated_at = now()
			WHERE id = $1 AND is_active = TRUE
			RETURNING available_seats, updated_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			screening.ID,
			screening.MovieID,
			screening.AuditoriumID,
			screening.StartTime,
			screening.EndTime,
			screening.BasePrice,
		).Scan(&screening.AvailableSeats, &screening.UpdatedAt)

		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrScreeningNotFound
		}

		return mapScheduleError(err)
	})
}

// reassignAuditorium moves a screening to the auditorium the caller set on it.
// Expired holds are reclaimed first; a reservation row that survives means a
// live booking exists and the move is refused.
func reassignAuditorium(ctx context.Context, tx pgx.Tx, screening *domain.Screening) error {
	err := reclaimExpiredHolds(ctx, tx, screening.ID)
	if err != nil {
		return err
	}

	var remaining int

	err = tx.QueryRow(
		ctx,
		`SELECT count(*) FROM seat_reservations WHERE screening_id = $1`,
		screening.ID,
	).Scan(&remaining)
	if err != nil {
		return err
	}

	if remaining > 0 {
		return domain.ErrScreeningHasBookings
	}

	var capacity int

	err = tx.QueryRow(
		ctx,
		`SELECT capacity FROM auditoriums WHERE id = $1`,
		screening.AuditoriumID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAuditoriumNotFound
		}

		return err
	}

	_, err = tx.Exec(
		ctx,
		`UPDATE screenings SET available_seats = $2 WHERE id = $1`,
		screening.ID,
		capacity,
	)

	return err
}

// hasOverlap runs the closed-open interval intersection scan: two intervals
// conflict when s1 < e2 AND s2 < e1, so back-to-back screenings are fine.
// The exclusion constraint on the table catches what slips between this check
// and the write under concurrency.
func hasOverlap(
	ctx context.Context,
	tx pgx.Tx,
	auditoriumID uuid.UUID,
	start, end time.Time,
	excludeID uuid.UUID) (bool, error) {

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM screenings
			WHERE auditorium_id = $1
				AND is_active = TRUE
				AND id <> $4
				AND start_time < $3
				AND $2 < end_time
		)
	`

	var conflict bool
	err := tx.QueryRow(ctx, query, auditoriumID, start, end, excludeID).Scan(&conflict)

	return conflict, err
}

func mapScheduleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return domain.ErrSchedulingConflict
	}

	return err
}

func (p *PostgresScreeningRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT is_active
			FROM screenings
			WHERE id = $1
			FOR UPDATE
		`

		var isActive bool

		err := tx.QueryRow(ctx, query, id).Scan(&isActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrScreeningNotFound
			}

			return err
		}

		if !isActive {
			return domain.ErrScreeningNotEditable
		}

		query = `
			SELECT COUNT(*)
			FROM bookings
			WHERE screening_id = $1 AND status IN ('PENDING', 'CONFIRMED')
		`

		var activeBookings int

		err = tx.QueryRow(ctx, query, id).Scan(&activeBookings)
		if err != nil {
			return err
		}

		if activeBookings > 0 {
			return domain.ErrScreeningHasBookings
		}

		query = `
			UPDATE screenings
			SET is_active = FALSE, updated_at = now()
			WHERE id = $1
		`

		_, err = tx.Exec(ctx, query, id)

		return err
	})
}

func (p *PostgresScreeningRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Screening, error) {
	query := `
		SELECT s.id, s.movie_id, s.auditorium_id, s.start_time, s.end_time, s.base_price,
			s.available_seats, s.is_active, s.created_by, s.created_at, s.updated_at,
			m.title, a.name
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		JOIN auditoriums a ON s.auditorium_id = a.id
		WHERE s.id = $1
	`

	var screening domain.Screening

	err := p.db.QueryRow(ctx, query, id).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.AuditoriumID,
		&screening.StartTime,
		&screening.EndTime,
		&screening.BasePrice,
		&screening.AvailableSeats,
		&screening.IsActive,
		&screening.CreatedBy,
		&screening.CreatedAt,
		&screening.UpdatedAt,
		&screening.MovieTitle,
		&screening.AuditoriumName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScreeningNotFound
		}

		return nil, err
	}

	return &screening, nil
}

func (p *PostgresScreeningRepository) ListUpcomingByMovie(
	ctx context.Context,
	movieID uuid.UUID,
	now time.Time) ([]*domain.Screening, error) {

	query := `
		SELECT s.id, s.movie_id, s.auditorium_id, s.start_time, s.end_time, s.base_price,
			s.available_seats, s.is_active, s.created_by, s.created_at, s.updated_at,
			m.title, a.name
		FROM screenings s
		JOIN movies m ON s.movie_id = m.id
		JOIN auditoriums a ON s.auditorium_id = a.id
		WHERE s.movie_id = $1 AND s.is_active = TRUE AND s.start_time > $2
		ORDER BY s.start_time ASC
	`

	rows, err := p.db.Query(ctx, query, movieID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	screenings := make([]*domain.Screening, 0)

	for rows.Next() {
		var screening domain.Screening

		err = rows.Scan(
			&screening.ID,
			&screening.MovieID,
			&screening.AuditoriumID,
			&screening.StartTime,
			&screening.EndTime,
			&screening.BasePrice,
			&screening.AvailableSeats,
			&screening.IsActive,
			&screening.CreatedBy,
			&screening.CreatedAt,
			&screening.UpdatedAt,
			&screening.MovieTitle,
			&screening.AuditoriumName,
		)
		if err != nil {
			return nil, err
		}

		screenings = append(screenings, &screening)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return screenings, nil
}
