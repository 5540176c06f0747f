package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `
		INSERT INTO movies (id, title, synopsis, duration_minutes, genre, language, rating, poster_url, release_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING created_at, updated_at
	`

	movie.ID = uuid.New()
	movie.IsActive = true

	return p.db.QueryRow(
		ctx,
		query,
		movie.ID,
		movie.Title,
		movie.Synopsis,
		movie.DurationMinutes,
		movie.Genre,
		movie.Language,
		movie.Rating,
		movie.PosterUrl,
		movie.ReleaseDate,
	).Scan(&movie.CreatedAt, &movie.UpdatedAt)
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, synopsis = $3, duration_minutes = $4, genre = $5, language = $6,
			rating = $7, poster_url = $8, release_date = $9, updated_at = now()
		WHERE id = $1 AND is_active = TRUE
		RETURNING updated_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		movie.ID,
		movie.Title,
		movie.Synopsis,
		movie.DurationMinutes,
		movie.Genre,
		movie.Language,
		movie.Rating,
		movie.PosterUrl,
		movie.ReleaseDate,
	).Scan(&movie.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrMovieNotFound
	}

	return err
}

func (p *PostgresMovieRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE movies
		SET is_active = FALSE, updated_at = now()
		WHERE id = $1 AND is_active = TRUE
	`

	result, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrMovieNotFound
	}

	return nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	query := `
		SELECT id, title, synopsis, duration_minutes, genre, language, rating, poster_url, release_date, is_active, created_at, updated_at
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Synopsis,
		&movie.DurationMinutes,
		&movie.Genre,
		&movie.Language,
		&movie.Rating,
		&movie.PosterUrl,
		&movie.ReleaseDate,
		&movie.IsActive,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	query := `
		SELECT id, title, synopsis, duration_minutes, genre, language, rating, poster_url, release_date, is_active, created_at, updated_at
		FROM movies
		WHERE is_active = TRUE
		ORDER BY release_date DESC
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]*domain.Movie, 0)

	for rows.Next() {
		var movie domain.Movie

		err = rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Synopsis,
			&movie.DurationMinutes,
			&movie.Genre,
			&movie.Language,
			&movie.Rating,
			&movie.PosterUrl,
			&movie.ReleaseDate,
			&movie.IsActive,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}
