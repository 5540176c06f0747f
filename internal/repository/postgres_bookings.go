package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create is the transactional heart of the booking flow. Everything between
// the screening lookup and the counter decrement happens in one transaction,
// so a failure at any step leaves no locked seats and no drifted counter.
func (p *PostgresBookingRepository) Create(
	ctx context.Context,
	booking *domain.Booking,
	seatIDs []uuid.UUID,
	holdFor time.Duration) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT base_price, available_seats
			FROM screenings
			WHERE id = $1 AND is_active = TRUE
		`

		var basePrice decimal.Decimal
		var availableSeats int

		err := tx.QueryRow(ctx, query, booking.ScreeningID).Scan(&basePrice, &availableSeats)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrScreeningNotFound
			}

			return err
		}

		if availableSeats < len(seatIDs) {
			return domain.ErrInsufficientSeats
		}

		seats, err := screeningSeats(ctx, tx, booking.ScreeningID, seatIDs)
		if err != nil {
			return err
		}

		if len(seats) != len(seatIDs) {
			return domain.ErrRecordNotFound
		}

		seatsByID := make(map[uuid.UUID]domain.Seat, len(seats))
		for _, seat := range seats {
			seatsByID[seat.ID] = seat
		}

		holds := make([]seatHold, len(seatIDs))
		total := decimal.Zero

		// holds keep the caller's seat order, so a conflict is reported
		// against the first seat the caller asked for
		for i, seatID := range seatIDs {
			seat := seatsByID[seatID]
			price := basePrice.Add(seat.ExtraPrice)
			holds[i] = seatHold{SeatID: seat.ID, Price: price}
			total = total.Add(price)

			booking.Seats = append(booking.Seats, domain.BookedSeat{
				SeatID:     seat.ID,
				RowLabel:   seat.RowLabel,
				SeatNumber: seat.SeatNumber,
				Class:      seat.Class,
				Price:      price,
			})
		}

		booking.ID = uuid.New()
		booking.BookingCode = domain.NewBookingCode()
		booking.TotalAmount = total
		booking.NumberOfSeats = len(seatIDs)
		booking.Status = domain.BookingPending

		query = `
			INSERT INTO bookings (id, customer_id, screening_id, booking_code, total_amount, number_of_seats, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.ID,
			booking.CustomerID,
			booking.ScreeningID,
			booking.BookingCode,
			booking.TotalAmount,
			booking.NumberOfSeats,
			booking.Status,
		).Scan(&booking.CreatedAt, &booking.UpdatedAt)

		if err != nil {
			return err
		}

		err = reserveSeats(ctx, tx, booking.ScreeningID, &booking.ID, holds, time.Now().Add(holdFor))
		if err != nil {
			return err
		}

		// conditional decrement: the guard re-checks inventory under
		// concurrency, losing the race rolls everything back
		query = `
			UPDATE screenings
			SET available_seats = available_seats - $2, updated_at = now()
			WHERE id = $1 AND is_active = TRUE AND available_seats >= $2
		`

		result, err := tx.Exec(ctx, query, booking.ScreeningID, len(seatIDs))
		if err != nil {
			return err
		}

		if result.RowsAffected() == 0 {
			return domain.ErrInsufficientSeats
		}

		return nil
	})
}

// screeningSeats loads the requested seats of the screening's auditorium with
// their pricing attributes. Seats outside the auditorium are simply missing
// from the result.
func screeningSeats(ctx context.Context, tx pgx.Tx, screeningID uuid.UUID, seatIDs []uuid.UUID) ([]domain.Seat, error) {
	query := `
		SELECT se.id, se.auditorium_id, se.row_label, se.seat_number, se.class, se.extra_price
		FROM seats se
		JOIN screenings sc ON se.auditorium_id = sc.auditorium_id
		WHERE sc.id = $1 AND se.id = ANY($2)
		ORDER BY se.row_label, se.seat_number
	`

	rows, err := tx.Query(ctx, query, screeningID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0, len(seatIDs))

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

	return seats, nil
}

func (p *PostgresBookingRepository) Confirm(ctx context.Context, id uuid.UUID) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		return confirmBooking(ctx, tx, id)
	})
}

func confirmBooking(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		SELECT status, number_of_seats
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	var status domain.BookingStatus
	var numberOfSeats int

	err := tx.QueryRow(ctx, query, id).Scan(&status, &numberOfSeats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookingNotFound
		}

		return err
	}

	switch status {
	case domain.BookingConfirmed:
		return nil
	case domain.BookingCancelled:
		return domain.ErrInvalidBookingState
	}

	query = `
		UPDATE seat_reservations
		SET status = 'BOOKED', locked_until = NULL
		WHERE booking_id = $1
	`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	// a PENDING booking always holds all of its rows: eviction and sweeping
	// cancel the whole booking first, which the FOR UPDATE above would see
	if result.RowsAffected() != int64(numberOfSeats) {
		return domain.ErrEditConflict
	}

	query = `
		UPDATE bookings
		SET status = 'CONFIRMED', updated_at = now()
		WHERE id = $1
	`

	_, err = tx.Exec(ctx, query, id)

	return err
}

func (p *PostgresBookingRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		return cancelBooking(ctx, tx, id)
	})
}

// cancelBooking releases the booking's seats, restores the screening counter
// and marks the booking CANCELLED, all inside the caller's transaction.
// Cancelling an already cancelled booking is a no-op.
func cancelBooking(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		SELECT screening_id, number_of_seats, status
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	var screeningID uuid.UUID
	var numberOfSeats int
	var status domain.BookingStatus

	err := tx.QueryRow(ctx, query, id).Scan(&screeningID, &numberOfSeats, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookingNotFound
		}

		return err
	}

	if status == domain.BookingCancelled {
		return nil
	}

	_, err = tx.Exec(ctx, `DELETE FROM seat_reservations WHERE booking_id = $1`, id)
	if err != nil {
		return err
	}

	query = `
		UPDATE screenings
		SET available_seats = available_seats + $2, updated_at = now()
		WHERE id = $1
	`

	_, err = tx.Exec(ctx, query, screeningID, numberOfSeats)
	if err != nil {
		return err
	}

	query = `
		UPDATE bookings
		SET status = 'CANCELLED', updated_at = now()
		WHERE id = $1
	`

	_, err = tx.Exec(ctx, query, id)

	return err
}

func (p *PostgresBookingRepository) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		SELECT DISTINCT b.id
		FROM bookings b
		JOIN seat_reservations r ON r.booking_id = b.id
		WHERE b.status = 'PENDING'
			AND r.status = 'LOCKED'
			AND r.locked_until IS NOT NULL
			AND r.locked_until <= $1
	`

	rows, err := p.db.Query(ctx, query, now)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var expired []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		expired = append(expired, id)
	}

	if err = rows.Err(); err != nil {
		return 0, err
	}

	var reclaimed int64

	// one transaction per booking, so a single failure doesn't hold back the rest
	for _, id := range expired {
		err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
			return cancelBooking(ctx, tx, id)
		})
		if err != nil {
			return reclaimed, err
		}

		reclaimed++
	}

	return reclaimed, nil
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, customer_id, screening_id, booking_code, total_amount, number_of_seats, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.ScreeningID,
		&booking.BookingCode,
		&booking.TotalAmount,
		&booking.NumberOfSeats,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	query = `
		SELECT r.seat_id, s.row_label, s.seat_number, s.class, r.price
		FROM seat_reservations r
		JOIN seats s ON r.seat_id = s.id
		WHERE r.booking_id = $1
		ORDER BY s.row_label, s.seat_number
	`

	rows, err := p.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seat domain.BookedSeat

		err = rows.Scan(&seat.SeatID, &seat.RowLabel, &seat.SeatNumber, &seat.Class, &seat.Price)
		if err != nil {
			return nil, err
		}

		booking.Seats = append(booking.Seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) ListByCustomer(
	ctx context.Context,
	customerID uuid.UUID) ([]domain.BookingSummary, error) {

	query := `
		SELECT b.id, b.booking_code, b.status, b.total_amount, b.number_of_seats,
			m.title, a.name, s.start_time, b.created_at
		FROM bookings b
		JOIN screenings s ON b.screening_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN auditoriums a ON s.auditorium_id = a.id
		WHERE b.customer_id = $1
		ORDER BY b.created_at DESC
	`

	return p.listSummaries(ctx, query, customerID)
}

func (p *PostgresBookingRepository) ListAll(ctx context.Context) ([]domain.BookingSummary, error) {
	query := `
		SELECT b.id, b.booking_code, b.status, b.total_amount, b.number_of_seats,
			m.title, a.name, s.start_time, b.created_at
		FROM bookings b
		JOIN screenings s ON b.screening_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN auditoriums a ON s.auditorium_id = a.id
		ORDER BY b.created_at DESC
	`

	return p.listSummaries(ctx, query)
}

func (p *PostgresBookingRepository) listSummaries(
	ctx context.Context,
	query string,
	args ...any) ([]domain.BookingSummary, error) {

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)

	for rows.Next() {
		var summary domain.BookingSummary

		err = rows.Scan(
			&summary.ID,
			&summary.BookingCode,
			&summary.Status,
			&summary.TotalAmount,
			&summary.NumberOfSeats,
			&summary.MovieTitle,
			&summary.AuditoriumName,
			&summary.ScreeningStart,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
