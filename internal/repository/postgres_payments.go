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

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

// RecordSuccess couples the payment insert with the booking confirmation so
// neither can land without the other. Replays of the same provider payment
// reference load the stored payment and change nothing, both on the fast path
// and when two deliveries race into the unique index.
func (p *PostgresPaymentRepository) RecordSuccess(ctx context.Context, payment *domain.Payment) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		if payment.ProviderPaymentID != nil {
			existing, err := getPaymentByProviderRef(ctx, tx, *payment.ProviderPaymentID)
			if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
				return err
			}

			if existing != nil {
				*payment = *existing
				return nil
			}
		}

		query := `
			SELECT status
			FROM bookings
			WHERE id = $1
			FOR UPDATE
		`

		var status domain.BookingStatus

		err := tx.QueryRow(ctx, query, payment.BookingID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrBookingNotFound
			}

			return err
		}

		switch status {
		case domain.BookingConfirmed:
			return domain.ErrBookingAlreadyPaid
		case domain.BookingCancelled:
			return domain.ErrBookingCancelled
		}

		payment.Status = domain.PaymentSuccess
		now := time.Now()
		payment.PaymentDate = &now

		err = insertPayment(ctx, tx, payment)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && payment.ProviderPaymentID != nil {
				// lost the race against a concurrent delivery of the same reference
				existing, refErr := getPaymentByProviderRef(ctx, tx, *payment.ProviderPaymentID)
				if refErr != nil {
					return refErr
				}

				*payment = *existing
				return nil
			}

			return err
		}

		return confirmBooking(ctx, tx, payment.BookingID)
	})
}

func (p *PostgresPaymentRepository) RecordFailure(ctx context.Context, payment *domain.Payment) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT status
			FROM bookings
			WHERE id = $1
			FOR UPDATE
		`

		var status domain.BookingStatus

		err := tx.QueryRow(ctx, query, payment.BookingID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrBookingNotFound
			}

			return err
		}

		if status == domain.BookingConfirmed {
			return domain.ErrBookingAlreadyPaid
		}

		payment.Status = domain.PaymentFailed

		err = insertPayment(ctx, tx, payment)
		if err != nil {
			return err
		}

		if status == domain.BookingPending {
			return cancelBooking(ctx, tx, payment.BookingID)
		}

		return nil
	})
}

func insertPayment(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, currency, method, transaction_id, status,
			payment_date, provider_order_id, provider_payment_id, provider_signature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	payment.ID = uuid.New()
	if payment.TransactionID == "" {
		payment.TransactionID = domain.NewTransactionID()
	}

	return tx.QueryRow(
		ctx,
		query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Currency,
		payment.Method,
		payment.TransactionID,
		payment.Status,
		payment.PaymentDate,
		payment.ProviderOrderID,
		payment.ProviderPaymentID,
		payment.ProviderSignature,
	).Scan(&payment.CreatedAt)
}

const paymentColumns = `
	SELECT id, booking_id, amount, currency, method, transaction_id, status,
		payment_date, provider_order_id, provider_payment_id, provider_signature, created_at
	FROM payments
`

func getPaymentByProviderRef(ctx context.Context, tx pgx.Tx, providerPaymentID string) (*domain.Payment, error) {
	query := paymentColumns + `WHERE provider_payment_id = $1`

	return scanPayment(tx.QueryRow(ctx, query, providerPaymentID))
}

func (p *PostgresPaymentRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := paymentColumns + `WHERE id = $1`

	return scanPayment(p.db.QueryRow(ctx, query, id))
}

func (p *PostgresPaymentRepository) GetByBookingId(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	query := paymentColumns + `WHERE booking_id = $1 ORDER BY created_at DESC LIMIT 1`

	return scanPayment(p.db.QueryRow(ctx, query, bookingID))
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Currency,
		&payment.Method,
		&payment.TransactionID,
		&payment.Status,
		&payment.PaymentDate,
		&payment.ProviderOrderID,
		&payment.ProviderPaymentID,
		&payment.ProviderSignature,
		&payment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return &payment, nil
}
