package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
)

type PostgresTicketRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTicketRepository(db *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{
		db: db,
	}
}

func (p *PostgresTicketRepository) GetOrCreate(ctx context.Context, ticket *domain.Ticket) error {
	existing, err := p.getByBookingId(ctx, ticket.BookingID)
	if err != nil && !errors.Is(err, domain.ErrTicketNotFound) {
		return err
	}

	if existing != nil {
		*ticket = *existing
		return nil
	}

	query := `
		INSERT INTO tickets (id, booking_id, ticket_number, qr_payload, is_used)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING created_at
	`

	ticket.ID = uuid.New()
	ticket.TicketNumber = domain.NewTicketNumber()
	ticket.IsUsed = false

	err = p.db.QueryRow(ctx, query, ticket.ID, ticket.BookingID, ticket.TicketNumber, ticket.QRPayload).
		Scan(&ticket.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		// a concurrent request created it first, hand back that one
		existing, refErr := p.getByBookingId(ctx, ticket.BookingID)
		if refErr != nil {
			return refErr
		}

		*ticket = *existing
		return nil
	}

	return err
}

func (p *PostgresTicketRepository) getByBookingId(ctx context.Context, bookingID uuid.UUID) (*domain.Ticket, error) {
	query := `
		SELECT id, booking_id, ticket_number, qr_payload, is_used, created_at
		FROM tickets
		WHERE booking_id = $1
	`

	return scanTicket(p.db.QueryRow(ctx, query, bookingID))
}

func (p *PostgresTicketRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	query := `
		SELECT id, booking_id, ticket_number, qr_payload, is_used, created_at
		FROM tickets
		WHERE id = $1
	`

	return scanTicket(p.db.QueryRow(ctx, query, id))
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket

	err := row.Scan(
		&ticket.ID,
		&ticket.BookingID,
		&ticket.TicketNumber,
		&ticket.QRPayload,
		&ticket.IsUsed,
		&ticket.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}

		return nil, err
	}

	return &ticket, nil
}

func (p *PostgresTicketRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE tickets
		SET is_used = TRUE
		WHERE id = $1 AND is_used = FALSE
	`

	result, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		_, err = p.GetById(ctx, id)
		if err != nil {
			return err
		}

		return domain.ErrTicketUsed
	}

	return nil
}
