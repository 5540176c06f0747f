package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyurekten/theatre-ticketing-system/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

type seatHold struct {
	SeatID uuid.UUID
	Price  decimal.Decimal
}

// reserveSeats inserts LOCKED rows for every seat or fails the whole call.
// The primary key on (screening_id, seat_id) is the serialization point: a
// concurrent transaction inserting the same seat blocks until the other
// commits, after which ON CONFLICT reports the row as skipped and the entire
// reservation attempt is aborted by the caller's rollback.
func reserveSeats(
	ctx context.Context,
	tx pgx.Tx,
	screeningID uuid.UUID,
	bookingID *uuid.UUID,
	holds []seatHold,
	lockedUntil time.Time) error {

	if err := evictExpiredSeats(ctx, tx, screeningID, seatIDsOf(holds)); err != nil {
		return err
	}

	seatIDs := make([]uuid.UUID, len(holds))
	prices := make([]decimal.Decimal, len(holds))
	for i, h := range holds {
		seatIDs[i] = h.SeatID
		prices[i] = h.Price
	}

	query := `
		INSERT INTO seat_reservations (screening_id, seat_id, booking_id, status, price, locked_at, locked_until)
		SELECT $1, s.seat_id, $2, 'LOCKED', s.price, now(), $3
		FROM unnest($4::uuid[], $5::numeric[]) AS s(seat_id, price)
		ON CONFLICT (screening_id, seat_id) DO NOTHING
		RETURNING seat_id
	`

	rows, err := tx.Query(ctx, query, screeningID, bookingID, lockedUntil, seatIDs, prices)
	if err != nil {
		return err
	}
	defer rows.Close()

	inserted := make(map[uuid.UUID]bool, len(holds))

	for rows.Next() {
		var seatID uuid.UUID
		if err := rows.Scan(&seatID); err != nil {
			return err
		}
		inserted[seatID] = true
	}

	if err = rows.Err(); err != nil {
		return err
	}

	for _, h := range holds {
		if !inserted[h.SeatID] {
			return &domain.SeatUnavailableError{SeatID: h.SeatID}
		}
	}

	return nil
}

// evictExpiredSeats reclaims expired LOCKED rows on the requested seats.
// Rows owned by a PENDING booking are reclaimed by cancelling the whole
// booking, which releases all of its seats and restores the screening counter.
// Orphan holds are simply deleted.
func evictExpiredSeats(ctx context.Context, tx pgx.Tx, screeningID uuid.UUID, seatIDs []uuid.UUID) error {
	query := `
		SELECT DISTINCT booking_id
		FROM seat_reservations
		WHERE screening_id = $1
			AND seat_id = ANY($2)
			AND status = 'LOCKED'
			AND locked_until IS NOT NULL
			AND locked_until <= now()
			AND booking_id IS NOT NULL
	`

	rows, err := tx.Query(ctx, query, screeningID, seatIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	var expiredBookings []uuid.UUID

	for rows.Next() {
		var bookingID uuid.UUID
		if err := rows.Scan(&bookingID); err != nil {
			return err
		}
		expiredBookings = append(expiredBookings, bookingID)
	}

	if err = rows.Err(); err != nil {
		return err
	}

	for _, bookingID := range expiredBookings {
		if err := cancelBooking(ctx, tx, bookingID); err != nil {
			return err
		}
	}

	query = `
		DELETE FROM seat_reservations
		WHERE screening_id = $1
			AND seat_id = ANY($2)
			AND status = 'LOCKED'
			AND locked_until IS NOT NULL
			AND locked_until <= now()
			AND booking_id IS NULL
	`

	_, err = tx.Exec(ctx, query, screeningID, seatIDs)

	return err
}

// reclaimExpiredHolds is the screening-wide form of evictExpiredSeats: every
// expired hold on the screening is reclaimed, cancelling stale owning
// bookings so the counter moves together with the rows.
func reclaimExpiredHolds(ctx context.Context, tx pgx.Tx, screeningID uuid.UUID) error {
	query := `
		SELECT DISTINCT booking_id
		FROM seat_reservations
		WHERE screening_id = $1
			AND status = 'LOCKED'
			AND locked_until IS NOT NULL
			AND locked_until <= now()
			AND booking_id IS NOT NULL
	`

	rows, err := tx.Query(ctx, query, screeningID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var expiredBookings []uuid.UUID

	for rows.Next() {
		var bookingID uuid.UUID
		if err := rows.Scan(&bookingID); err != nil {
			return err
		}
		expiredBookings = append(expiredBookings, bookingID)
	}

	if err = rows.Err(); err != nil {
		return err
	}

	for _, bookingID := range expiredBookings {
		if err := cancelBooking(ctx, tx, bookingID); err != nil {
			return err
		}
	}

	query = `
		DELETE FROM seat_reservations
		WHERE screening_id = $1
			AND status = 'LOCKED'
			AND locked_until IS NOT NULL
			AND locked_until <= now()
			AND booking_id IS NULL
	`

	_, err = tx.Exec(ctx, query, screeningID)

	return err
}

func seatIDsOf(holds []seatHold) []uuid.UUID {
	ids := make([]uuid.UUID, len(holds))
	for i, h := range holds {
		ids[i] = h.SeatID
	}

	return ids
}

func (p *PostgresReservationRepository) Reserve(
	ctx context.Context,
	screeningID uuid.UUID,
	seatIDs []uuid.UUID,
	holdFor time.Duration) error {

	holds := make([]seatHold, len(seatIDs))
	for i, id := range seatIDs {
		holds[i] = seatHold{SeatID: id, Price: decimal.Zero}
	}

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		return reserveSeats(ctx, tx, screeningID, nil, holds, time.Now().Add(holdFor))
	})
}

func (p *PostgresReservationRepository) Release(
	ctx context.Context,
	screeningID uuid.UUID,
	seatIDs []uuid.UUID) error {

	query := `
		DELETE FROM seat_reservations
		WHERE screening_id = $1 AND seat_id = ANY($2)
	`

	_, err := p.db.Exec(ctx, query, screeningID, seatIDs)

	return err
}

func (p *PostgresReservationRepository) GetActiveByScreening(
	ctx context.Context,
	screeningID uuid.UUID) ([]domain.SeatReservation, error) {

	// expired LOCKED rows are treated as absent without waiting for a sweep
	query := `
		SELECT screening_id, seat_id, booking_id, status, price, locked_at, locked_until
		FROM seat_reservations
		WHERE screening_id = $1
			AND (status = 'BOOKED' OR locked_until IS NULL OR locked_until > now())
	`

	rows, err := p.db.Query(ctx, query, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.SeatReservation, 0)

	for rows.Next() {
		var reservation domain.SeatReservation

		err = rows.Scan(
			&reservation.ScreeningID,
			&reservation.SeatID,
			&reservation.BookingID,
			&reservation.Status,
			&reservation.Price,
			&reservation.LockedAt,
			&reservation.LockedUntil,
		)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, reservation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (p *PostgresReservationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM seat_reservations
		WHERE status = 'LOCKED'
			AND booking_id IS NULL
			AND locked_until IS NOT NULL
			AND locked_until <= $1
	`

	result, err := p.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}
